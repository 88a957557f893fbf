package treediff

// DefaultMaxLCSCells bounds the alignment table built for one node pair.
const DefaultMaxLCSCells = 1 << 22

type Option func(*differ)

// WithMaxLCSCells limits the number of cells of the alignment table built
// for any node pair. Children of a node whose table would be larger are
// not aligned; the differing middle is reported as a single change.
func WithMaxLCSCells(n int) Option {
	return func(d *differ) {
		if n > 0 {
			d.maxCells = n
		}
	}
}
