package diagfmt

// Options controls both renderers.
type Options struct {
	// Color enables ANSI styling; ignored by JSON.
	Color bool
	// Basename prints file names without their directory.
	Basename bool
	// Notes includes diagnostic notes.
	Notes bool
	// Max caps printed diagnostics, 0 prints all. The total is still reported.
	Max int
}

func (o Options) limit(n int) int {
	if o.Max > 0 && o.Max < n {
		return o.Max
	}
	return n
}
