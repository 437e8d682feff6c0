package filter

// Bank holds one independent shelf per channel.
type Bank struct {
	shelves []Shelf
}

// NewBank allocates a bank for a channel count. All shelves start flat.
func NewBank(channels int) *Bank {
	if channels < 0 {
		channels = 0
	}
	b := &Bank{shelves: make([]Shelf, channels)}
	for i := range b.shelves {
		b.shelves[i] = NewShelf()
	}
	return b
}

// Channels returns the number of shelves.
func (b *Bank) Channels() int {
	return len(b.shelves)
}

// Channel returns the shelf of channel ch.
func (b *Bank) Channel(ch int) *Shelf {
	return &b.shelves[ch]
}

// UpdateCoefficients redesigns every shelf. Delay registers are kept so the
// change does not click.
func (b *Bank) UpdateCoefficients(cutoff, gain float64) error {
	c, err := ShelfCoefficients(cutoff, gain)
	if err != nil {
		return err
	}
	for i := range b.shelves {
		b.shelves[i].SetCoefficients(c)
		b.shelves[i].cutoff = cutoff
		b.shelves[i].gain = gain
	}
	return nil
}

// Reset clears the state of every channel.
func (b *Bank) Reset() {
	for i := range b.shelves {
		b.shelves[i].Reset()
	}
}
