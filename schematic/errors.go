package schematic

import (
	"errors"
	"fmt"
)

// ErrNoPlacements means the model output contained zero recognizable block
// placements. The caller surfaces this as "try again with a different
// description"; no output file is written.
var ErrNoPlacements = errors.New("no block placements found in model output")

// ErrUnknownVersion is wrapped by LookupDataVersion for versions outside the
// data-version table. Callers match it with errors.Is.
var ErrUnknownVersion = errors.New("unsupported minecraft version")

// EncodingError reports a placement that cannot be represented in the chosen
// format or version. It always aborts before any file is written.
type EncodingError struct {
	Block  string
	Pos    [3]int
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode %s at (%d, %d, %d): %s", e.Block, e.Pos[0], e.Pos[1], e.Pos[2], e.Reason)
}
