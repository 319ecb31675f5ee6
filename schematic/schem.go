package schematic

import (
	"bufio"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// schemFormatVersion is the Sponge schematic container version this encoder
// emits. Version 2 is what WorldEdit-family tools import.
const schemFormatVersion = 2

// EncodeSchem writes the document as a gzip-compressed Sponge v2 .schem
// container: header fields, a first-encounter-order palette, and a
// varint-encoded dense block index array in x-fastest, y-major order.
func EncodeSchem(doc *StructureDocument, w io.Writer) error {
	width, height, length := doc.Size[0], doc.Size[1], doc.Size[2]
	if int64(width)*int64(height)*int64(length) > maxVolume {
		return &EncodingError{
			Pos:    doc.Origin,
			Reason: fmt.Sprintf("bounding box %dx%dx%d exceeds %d blocks total", width, height, length, maxVolume),
		}
	}
	volume := width * height * length

	// Dense index grid; -1 marks positions no placement covers.
	grid := make([]int, volume)
	for i := range grid {
		grid[i] = -1
	}

	palette := NewPalette()
	for _, p := range doc.Placements {
		x, y, z := p.X-doc.Origin[0], p.Y-doc.Origin[1], p.Z-doc.Origin[2]
		if x < 0 || x >= width || y < 0 || y >= height || z < 0 || z >= length {
			return &EncodingError{
				Block:  p.Block,
				Pos:    [3]int{p.X, p.Y, p.Z},
				Reason: fmt.Sprintf("outside bounding box %dx%dx%d", width, height, length),
			}
		}
		grid[(y*length+z)*width+x] = palette.Index(p.Key())
	}

	// Gaps become air. The air entry joins the palette only when a gap
	// actually exists, so every palette slot stays referenced.
	airIndex := -1
	for i, v := range grid {
		if v == -1 {
			if airIndex == -1 {
				airIndex = palette.Index("minecraft:air")
			}
			grid[i] = airIndex
		}
	}

	blockData := make([]byte, 0, volume)
	for _, v := range grid {
		blockData = appendUvarint(blockData, uint32(v))
	}

	gz := gzip.NewWriter(w)
	bw := bufio.NewWriter(gz)
	n := newNBTWriter(bw)

	n.beginCompound("Schematic")
	n.putInt("Version", schemFormatVersion)
	n.putInt("DataVersion", int32(doc.DataVersion))
	n.putShort("Width", int16(width))
	n.putShort("Height", int16(height))
	n.putShort("Length", int16(length))
	n.putIntArray("Offset", []int32{int32(doc.Origin[0]), int32(doc.Origin[1]), int32(doc.Origin[2])})
	n.putInt("PaletteMax", int32(palette.Len()))
	n.beginCompound("Palette")
	for i, key := range palette.Keys() {
		n.putInt(key, int32(i))
	}
	n.endCompound()
	n.putByteArray("BlockData", blockData)
	n.beginCompound("Metadata")
	n.putString("Generator", "BuilderGPT")
	n.putString("MinecraftVersion", doc.Version)
	n.endCompound()
	n.endCompound()

	if n.err != nil {
		return fmt.Errorf("write schem body: %w", n.err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush schem body: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("close gzip stream: %w", err)
	}
	return nil
}

// appendUvarint appends v as an unsigned LEB128 varint, the Sponge BlockData
// encoding.
func appendUvarint(b []byte, v uint32) []byte {
	for v >= 0x80 {
		b = append(b, byte(v)|0x80)
		v >>= 7
	}
	return append(b, byte(v))
}
