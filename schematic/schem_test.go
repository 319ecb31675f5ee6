package schematic

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// Test-side NBT reader for the tag subset the encoder emits.
func readNBTRoot(t *testing.T, data []byte) (string, map[string]any) {
	t.Helper()
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("gzip: %v", err)
	}
	body, err := io.ReadAll(gz)
	if err != nil {
		t.Fatalf("read gzip body: %v", err)
	}
	r := bytes.NewReader(body)
	typ := readByte(t, r)
	if typ != tagCompound {
		t.Fatalf("root tag type = %d, want compound", typ)
	}
	name := readName(t, r)
	return name, readCompound(t, r)
}

func readByte(t *testing.T, r *bytes.Reader) byte {
	t.Helper()
	b, err := r.ReadByte()
	if err != nil {
		t.Fatalf("read byte: %v", err)
	}
	return b
}

func readBE[T any](t *testing.T, r *bytes.Reader) T {
	t.Helper()
	var v T
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		t.Fatalf("read value: %v", err)
	}
	return v
}

func readName(t *testing.T, r *bytes.Reader) string {
	t.Helper()
	n := readBE[uint16](t, r)
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		t.Fatalf("read name: %v", err)
	}
	return string(buf)
}

func readCompound(t *testing.T, r *bytes.Reader) map[string]any {
	t.Helper()
	out := make(map[string]any)
	for {
		typ := readByte(t, r)
		if typ == tagEnd {
			return out
		}
		name := readName(t, r)
		switch typ {
		case tagShort:
			out[name] = readBE[int16](t, r)
		case tagInt:
			out[name] = readBE[int32](t, r)
		case tagString:
			out[name] = readName(t, r)
		case tagByteArray:
			n := readBE[int32](t, r)
			buf := make([]byte, n)
			if _, err := io.ReadFull(r, buf); err != nil {
				t.Fatalf("read byte array: %v", err)
			}
			out[name] = buf
		case tagIntArray:
			n := readBE[int32](t, r)
			vals := make([]int32, n)
			if err := binary.Read(r, binary.BigEndian, vals); err != nil {
				t.Fatalf("read int array: %v", err)
			}
			out[name] = vals
		case tagCompound:
			out[name] = readCompound(t, r)
		default:
			t.Fatalf("unexpected tag type %d for %q", typ, name)
		}
	}
}

func decodeVarints(t *testing.T, data []byte) []uint32 {
	t.Helper()
	var out []uint32
	var v uint32
	var shift uint
	for _, b := range data {
		v |= uint32(b&0x7f) << shift
		if b&0x80 != 0 {
			shift += 7
			continue
		}
		out = append(out, v)
		v, shift = 0, 0
	}
	if shift != 0 {
		t.Fatal("truncated varint stream")
	}
	return out
}

func encodeSchemBytes(t *testing.T, doc *StructureDocument) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := EncodeSchem(doc, &buf); err != nil {
		t.Fatalf("encode schem: %v", err)
	}
	return buf.Bytes()
}

func TestEncodeSchem_HeaderFields(t *testing.T) {
	raw := "setblock 0 0 0 stone\nsetblock 2 1 3 glass\n"
	doc, err := BuildDocument(mustParse(t, raw), "1.20.1", PolicyStrict)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	rootName, root := readNBTRoot(t, encodeSchemBytes(t, doc))
	if rootName != "Schematic" {
		t.Errorf("root name = %q", rootName)
	}
	if v := root["Version"].(int32); v != 2 {
		t.Errorf("Version = %d, want 2", v)
	}
	if dv := root["DataVersion"].(int32); dv != 3465 {
		t.Errorf("DataVersion = %d, want 3465", dv)
	}
	if w := root["Width"].(int16); w != 3 {
		t.Errorf("Width = %d, want 3", w)
	}
	if h := root["Height"].(int16); h != 2 {
		t.Errorf("Height = %d, want 2", h)
	}
	if l := root["Length"].(int16); l != 4 {
		t.Errorf("Length = %d, want 4", l)
	}
	offset := root["Offset"].([]int32)
	if offset[0] != 0 || offset[1] != 0 || offset[2] != 0 {
		t.Errorf("Offset = %v", offset)
	}
}

func TestEncodeSchem_PaletteLivenessAndIndexRange(t *testing.T) {
	// Two distinct blocks plus gaps, so air joins the palette too.
	raw := "setblock 0 0 0 stone\nsetblock 2 0 0 glass\nsetblock 0 2 2 oak_planks\n"
	doc, err := BuildDocument(mustParse(t, raw), "1.20.1", PolicyStrict)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	_, root := readNBTRoot(t, encodeSchemBytes(t, doc))

	palette := root["Palette"].(map[string]any)
	paletteMax := int(root["PaletteMax"].(int32))
	if len(palette) != paletteMax {
		t.Errorf("palette has %d entries, PaletteMax = %d", len(palette), paletteMax)
	}
	if _, ok := palette["minecraft:air"]; !ok {
		t.Error("gaps exist but palette has no air entry")
	}

	indices := decodeVarints(t, root["BlockData"].([]byte))
	w, h, l := int(root["Width"].(int16)), int(root["Height"].(int16)), int(root["Length"].(int16))
	if len(indices) != w*h*l {
		t.Fatalf("got %d indices, want %d", len(indices), w*h*l)
	}

	referenced := make(map[uint32]bool)
	for _, idx := range indices {
		if int(idx) >= paletteMax {
			t.Fatalf("block index %d out of palette range %d", idx, paletteMax)
		}
		referenced[idx] = true
	}
	for key, v := range palette {
		if !referenced[uint32(v.(int32))] {
			t.Errorf("dead palette slot: %s -> %d", key, v)
		}
	}
}

func TestEncodeSchem_NoAirEntryWhenDense(t *testing.T) {
	doc, err := BuildDocument(mustParse(t, "fill 0 0 0 1 1 1 stone\n"), "1.20.1", PolicyStrict)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	_, root := readNBTRoot(t, encodeSchemBytes(t, doc))
	palette := root["Palette"].(map[string]any)
	if len(palette) != 1 {
		t.Fatalf("palette = %v, want only minecraft:stone", palette)
	}
	if _, ok := palette["minecraft:stone"]; !ok {
		t.Errorf("palette = %v", palette)
	}
}

func TestEncodeSchem_Deterministic(t *testing.T) {
	raw := "setblock 0 0 0 stone\nsetblock 1 0 0 oak_stairs[facing=north]\nsetblock 0 1 0 glass\n"
	doc, err := BuildDocument(mustParse(t, raw), "1.20.1", PolicyStrict)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	a := encodeSchemBytes(t, doc)
	b := encodeSchemBytes(t, doc)
	if !bytes.Equal(a, b) {
		t.Fatal("two runs produced different bytes")
	}
}

func TestEncodeSchem_PaletteFirstEncounterOrder(t *testing.T) {
	raw := "setblock 0 0 0 glass\nsetblock 1 0 0 stone\nsetblock 2 0 0 glass\n"
	doc, err := BuildDocument(mustParse(t, raw), "1.20.1", PolicyStrict)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	_, root := readNBTRoot(t, encodeSchemBytes(t, doc))
	palette := root["Palette"].(map[string]any)
	if palette["minecraft:glass"].(int32) != 0 || palette["minecraft:stone"].(int32) != 1 {
		t.Errorf("palette order = %v, want first-encounter order", palette)
	}
}

func TestEncodeSchem_NegativeOriginOffset(t *testing.T) {
	doc, err := BuildDocument(mustParse(t, "setblock -1 -2 -3 stone\nsetblock 0 0 0 glass\n"), "1.20.1", PolicyStrict)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	_, root := readNBTRoot(t, encodeSchemBytes(t, doc))
	offset := root["Offset"].([]int32)
	if offset[0] != -1 || offset[1] != -2 || offset[2] != -3 {
		t.Errorf("Offset = %v, want [-1 -2 -3]", offset)
	}
}
