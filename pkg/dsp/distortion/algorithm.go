// Package distortion implements the waveshaping stage of the distortion effect.
package distortion

import (
	"fmt"
)

// Algorithm selects one of the fixed waveshaping transfer functions.
type Algorithm int

const (
	// HardClipping limits the signal to ±0.5 and halves it
	HardClipping Algorithm = iota
	// SoftClipping is a three segment quadratic knee between 1/3 and 2/3
	SoftClipping
	// Exponential saturates with 1-e^-|x|, asymmetric around zero crossing
	Exponential
	// FullWaveRectifier takes the absolute value
	FullWaveRectifier
	// HalfWaveRectifier drops the negative half
	HalfWaveRectifier
	// FoldBack reflects the signal once past ±0.3
	FoldBack
	// Squarer squares the input
	Squarer
	// ChebyshevT4 applies the 4th order Chebyshev polynomial
	ChebyshevT4
	// BitCrusher keeps every fourth sample and zeroes the rest
	BitCrusher
	// SlewLimiter limits the rate of change between samples
	SlewLimiter

	numAlgorithms
)

var algorithmNames = [numAlgorithms]string{
	"Hard clipping",
	"Soft clipping",
	"Exponential",
	"Full-wave rectifier",
	"Half-wave rectifier",
	"Fold-back",
	"Squarer",
	"Chebyshev 4th order",
	"Bit crusher",
	"Slew limiter",
}

// NumAlgorithms is the size of the algorithm set.
const NumAlgorithms = int(numAlgorithms)

// Valid reports whether a is one of the defined algorithms.
func (a Algorithm) Valid() bool {
	return a >= 0 && a < numAlgorithms
}

// String returns the display name.
func (a Algorithm) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// Stateful reports whether the algorithm keeps memory across samples.
func (a Algorithm) Stateful() bool {
	return a == BitCrusher || a == SlewLimiter
}

// Algorithms returns every algorithm in selector order.
func Algorithms() []Algorithm {
	all := make([]Algorithm, numAlgorithms)
	for i := range all {
		all[i] = Algorithm(i)
	}
	return all
}

// Names returns the display names in selector order.
func Names() []string {
	names := make([]string, numAlgorithms)
	copy(names, algorithmNames[:])
	return names
}

// ParseAlgorithm validates a selector index.
func ParseAlgorithm(index int) (Algorithm, error) {
	a := Algorithm(index)
	if !a.Valid() {
		return 0, fmt.Errorf("distortion algorithm %d out of range [0,%d)", index, NumAlgorithms)
	}
	return a, nil
}

// ClampAlgorithm maps any index onto the nearest valid algorithm.
func ClampAlgorithm(index int) Algorithm {
	if index < 0 {
		return 0
	}
	if index >= NumAlgorithms {
		return numAlgorithms - 1
	}
	return Algorithm(index)
}
