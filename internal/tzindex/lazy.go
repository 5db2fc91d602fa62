package tzindex

import "sync"

// Lazy defers building an index until the first lookup. Concurrent first
// lookups share a single build.
type Lazy struct {
	load func() (Index, error)
}

func NewLazy(build func() (Index, error)) *Lazy {
	return &Lazy{load: sync.OnceValues(build)}
}

// Lookup returns "" while the index cannot be built; Ready reports why.
func (l *Lazy) Lookup(lat, lon float64) string {
	idx, err := l.load()
	if err != nil {
		return ""
	}
	return idx.Lookup(lat, lon)
}

func (l *Lazy) Ready() error {
	_, err := l.load()
	return err
}
