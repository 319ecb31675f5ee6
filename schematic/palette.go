package schematic

// Palette maps distinct block+state keys to compact integer indices. Indices
// are assigned in first-encounter order, so identical placement sequences
// always produce identical palettes.
type Palette struct {
	keys  []string
	index map[string]int
}

func NewPalette() *Palette {
	return &Palette{index: make(map[string]int)}
}

// Index returns the palette index for key, assigning the next free index on
// first encounter.
func (p *Palette) Index(key string) int {
	if i, ok := p.index[key]; ok {
		return i
	}
	i := len(p.keys)
	p.keys = append(p.keys, key)
	p.index[key] = i
	return i
}

// Len is the number of distinct entries.
func (p *Palette) Len() int { return len(p.keys) }

// Keys returns entries in index order. The slice is owned by the palette.
func (p *Palette) Keys() []string { return p.keys }
