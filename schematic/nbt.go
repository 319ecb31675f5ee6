package schematic

import (
	"encoding/binary"
	"io"
	"math"
)

// Minimal big-endian NBT tag writer covering the subset the Sponge schematic
// container needs. Tag ids follow the Java Edition NBT specification.
const (
	tagEnd       = 0
	tagShort     = 2
	tagInt       = 3
	tagByteArray = 7
	tagString    = 8
	tagCompound  = 10
	tagIntArray  = 11
)

type nbtWriter struct {
	w   io.Writer
	err error
}

func newNBTWriter(w io.Writer) *nbtWriter { return &nbtWriter{w: w} }

func (n *nbtWriter) write(v any) {
	if n.err != nil {
		return
	}
	n.err = binary.Write(n.w, binary.BigEndian, v)
}

func (n *nbtWriter) writeName(name string) {
	if len(name) > math.MaxUint16 {
		name = name[:math.MaxUint16]
	}
	n.write(uint16(len(name)))
	n.write([]byte(name))
}

func (n *nbtWriter) beginCompound(name string) {
	n.write(byte(tagCompound))
	n.writeName(name)
}

func (n *nbtWriter) endCompound() {
	n.write(byte(tagEnd))
}

func (n *nbtWriter) putShort(name string, v int16) {
	n.write(byte(tagShort))
	n.writeName(name)
	n.write(v)
}

func (n *nbtWriter) putInt(name string, v int32) {
	n.write(byte(tagInt))
	n.writeName(name)
	n.write(v)
}

func (n *nbtWriter) putString(name, v string) {
	n.write(byte(tagString))
	n.writeName(name)
	n.writeName(v)
}

func (n *nbtWriter) putByteArray(name string, v []byte) {
	n.write(byte(tagByteArray))
	n.writeName(name)
	n.write(int32(len(v)))
	n.write(v)
}

func (n *nbtWriter) putIntArray(name string, v []int32) {
	n.write(byte(tagIntArray))
	n.writeName(name)
	n.write(int32(len(v)))
	n.write(v)
}
