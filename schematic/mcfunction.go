package schematic

import (
	"bufio"
	"fmt"
	"io"
)

// EncodeMcfunction writes one setblock command per placement, in parse order,
// UTF-8 with \n line endings. Output follows the function-file command
// grammar, so the emitted file can be dropped into a datapack directly.
func EncodeMcfunction(doc *StructureDocument, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, p := range doc.Placements {
		if _, err := fmt.Fprintf(bw, "setblock %d %d %d %s\n", p.X, p.Y, p.Z, p.Key()); err != nil {
			return fmt.Errorf("write mcfunction line: %w", err)
		}
	}
	return bw.Flush()
}
