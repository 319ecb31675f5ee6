package schematic

import (
	"fmt"
	"io"
)

// BuildDocument validates parsed placements against the target version and
// block policy and derives the bounding box. The returned document is the
// only input the serializers accept.
//
// Out-of-range handling is deliberate and uniform: when the payload declared
// a size, placements outside it are rejected with an EncodingError, never
// clipped. Clipping would silently change the structure the model described.
func BuildDocument(res *ParseResult, version string, policy BlockPolicy) (*StructureDocument, error) {
	dv, err := LookupDataVersion(version)
	if err != nil {
		return nil, err
	}

	doc := &StructureDocument{
		Version:     NormalizeVersion(version),
		DataVersion: dv,
		Warnings:    append([]string(nil), res.Warnings...),
	}

	seen := make(map[[3]int]int)
	for _, p := range res.Placements {
		p.Block = NormalizeBlockID(p.Block)
		if p.Block == "" {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf("empty block id at (%d, %d, %d), skipped", p.X, p.Y, p.Z))
			continue
		}
		if !KnownBlock(p.Block) {
			switch policy {
			case PolicyStrict:
				return nil, &EncodingError{Block: p.Block, Pos: [3]int{p.X, p.Y, p.Z}, Reason: "unknown block id for version " + doc.Version}
			default:
				doc.Warnings = append(doc.Warnings, fmt.Sprintf("unknown block id %s at (%d, %d, %d), substituted minecraft:air", p.Block, p.X, p.Y, p.Z))
				p.Block = "minecraft:air"
				p.States = nil
			}
		}
		if res.DeclaredSize != nil {
			s := *res.DeclaredSize
			if p.X < 0 || p.X >= s[0] || p.Y < 0 || p.Y >= s[1] || p.Z < 0 || p.Z >= s[2] {
				return nil, &EncodingError{
					Block:  p.Block,
					Pos:    [3]int{p.X, p.Y, p.Z},
					Reason: fmt.Sprintf("outside declared size %dx%dx%d", s[0], s[1], s[2]),
				}
			}
		}
		coord := [3]int{p.X, p.Y, p.Z}
		if i, dup := seen[coord]; dup {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf("duplicate placement at (%d, %d, %d), later %s wins", p.X, p.Y, p.Z, p.Block))
			doc.Placements[i] = p
			continue
		}
		seen[coord] = len(doc.Placements)
		doc.Placements = append(doc.Placements, p)
	}

	if len(doc.Placements) == 0 {
		return nil, ErrNoPlacements
	}

	min := [3]int{doc.Placements[0].X, doc.Placements[0].Y, doc.Placements[0].Z}
	max := min
	for _, p := range doc.Placements {
		c := [3]int{p.X, p.Y, p.Z}
		for i := 0; i < 3; i++ {
			if c[i] < min[i] {
				min[i] = c[i]
			}
			if c[i] > max[i] {
				max[i] = c[i]
			}
		}
	}
	doc.Origin = min
	doc.Size = [3]int{max[0] - min[0] + 1, max[1] - min[1] + 1, max[2] - min[2] + 1}
	if res.DeclaredSize != nil {
		doc.Size = *res.DeclaredSize
		doc.Origin = [3]int{0, 0, 0}
	}
	for i := 0; i < 3; i++ {
		if doc.Size[i] > maxAxis {
			return nil, &EncodingError{
				Pos:    min,
				Reason: fmt.Sprintf("bounding box %dx%dx%d exceeds %d blocks per axis", doc.Size[0], doc.Size[1], doc.Size[2], maxAxis),
			}
		}
	}
	if int64(doc.Size[0])*int64(doc.Size[1])*int64(doc.Size[2]) > maxVolume {
		return nil, &EncodingError{
			Pos:    min,
			Reason: fmt.Sprintf("bounding box %dx%dx%d exceeds %d blocks total", doc.Size[0], doc.Size[1], doc.Size[2], maxVolume),
		}
	}
	return doc, nil
}

// Encode serializes the document in the chosen format. Output is
// deterministic: the same document and format always produce the same bytes.
func (doc *StructureDocument) Encode(format ExportFormat, w io.Writer) error {
	switch format {
	case FormatSchem:
		return EncodeSchem(doc, w)
	case FormatMcfunction:
		return EncodeMcfunction(doc, w)
	}
	return fmt.Errorf("unknown export format %v", format)
}
