package schematic

import (
	"fmt"
	"sort"
	"strings"
)

// BlockPlacement is a single block instruction: a coordinate relative to the
// structure origin, a namespaced block id, and optional block-state attributes.
type BlockPlacement struct {
	X, Y, Z int
	Block   string
	States  map[string]string
}

// Key returns the canonical palette key for the placement, e.g.
// "minecraft:oak_stairs[facing=north,half=top]". States are sorted by name so
// the same block+state combination always yields the same key.
func (p BlockPlacement) Key() string {
	if len(p.States) == 0 {
		return p.Block
	}
	names := make([]string, 0, len(p.States))
	for k := range p.States {
		names = append(names, k)
	}
	sort.Strings(names)
	var sb strings.Builder
	sb.WriteString(p.Block)
	sb.WriteByte('[')
	for i, k := range names {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(p.States[k])
	}
	sb.WriteByte(']')
	return sb.String()
}

// StructureDocument is the parsed and validated structure, ready to encode.
// Origin is the minimum corner of the bounding box; Size is width/height/length.
type StructureDocument struct {
	Placements  []BlockPlacement
	Version     string
	DataVersion int
	Origin      [3]int
	Size        [3]int
	Warnings    []string
}

// ExportFormat selects the serializer for a generation.
type ExportFormat int

const (
	FormatSchem ExportFormat = iota
	FormatMcfunction
)

func (f ExportFormat) String() string {
	switch f {
	case FormatSchem:
		return "schem"
	case FormatMcfunction:
		return "mcfunction"
	}
	return fmt.Sprintf("ExportFormat(%d)", int(f))
}

// Ext returns the output file extension, without the dot.
func (f ExportFormat) Ext() string { return f.String() }

// ParseExportFormat parses the user-facing format selector.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "schem":
		return FormatSchem, nil
	case "mcfunction":
		return FormatMcfunction, nil
	}
	return 0, fmt.Errorf("unknown export format %q (want schem or mcfunction)", s)
}
