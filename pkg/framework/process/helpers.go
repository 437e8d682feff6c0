package process

// ProcessChannels runs fn over every input channel in place.
func (c *Context) ProcessChannels(fn func(ch int, samples []float32)) {
	for ch := 0; ch < c.InputChannels; ch++ {
		fn(ch, c.Channel(ch))
	}
}

// Interleave writes the active block into dst as interleaved frames and
// returns the number of values written.
func (c *Context) Interleave(dst []float32) int {
	channels := len(c.Buffer)
	n := c.NumSamples
	if channels == 0 {
		return 0
	}
	if frames := len(dst) / channels; n > frames {
		n = frames
	}
	for i := 0; i < n; i++ {
		for ch := 0; ch < channels; ch++ {
			dst[i*channels+ch] = c.Buffer[ch][i]
		}
	}
	return n * channels
}

// Deinterleave loads interleaved frames from src into the buffer, sets
// NumSamples to the number of frames read and returns it.
func (c *Context) Deinterleave(src []float32) int {
	channels := len(c.Buffer)
	if channels == 0 {
		c.NumSamples = 0
		return 0
	}
	n := len(src) / channels
	if n > len(c.Buffer[0]) {
		n = len(c.Buffer[0])
	}
	for i := 0; i < n; i++ {
		for ch := 0; ch < channels; ch++ {
			c.Buffer[ch][i] = src[i*channels+ch]
		}
	}
	c.NumSamples = n
	return n
}
