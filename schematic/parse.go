package schematic

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// maxAxis caps structure dimensions on every axis; maxVolume caps the total
// bounding-box volume, since the .schem encoder allocates a dense grid over
// it. Anything larger is a runaway fill region, not a building.
const (
	maxAxis   = 4096
	maxVolume = 1 << 24
)

// ParseResult holds raw placements before document-level validation.
type ParseResult struct {
	Placements   []BlockPlacement
	DeclaredSize *[3]int
	Warnings     []string
}

var (
	setblockRe = regexp.MustCompile(`^/?setblock\s+(~?-?\d+)\s+(~?-?\d+)\s+(~?-?\d+)\s+(\S+)\s*$`)
	fillRe     = regexp.MustCompile(`^/?fill\s+(~?-?\d+)\s+(~?-?\d+)\s+(~?-?\d+)\s+(~?-?\d+)\s+(~?-?\d+)\s+(~?-?\d+)\s+(\S+)\s*$`)
)

const structuresSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["structures"],
  "properties": {
    "size": {
      "type": "array",
      "items": {"type": "integer", "minimum": 1, "maximum": 4096},
      "minItems": 3,
      "maxItems": 3
    },
    "structures": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type", "block", "x", "y", "z"],
        "properties": {
          "type": {"enum": ["setblock", "fill"]},
          "block": {"type": "string", "minLength": 1},
          "x": {"type": "integer"},
          "y": {"type": "integer"},
          "z": {"type": "integer"},
          "toX": {"type": "integer"},
          "toY": {"type": "integer"},
          "toZ": {"type": "integer"},
          "states": {"type": "object", "additionalProperties": {"type": "string"}}
        }
      }
    }
  }
}`

var structuresSchemaCompiled = jsonschema.MustCompileString("structures.schema.json", structuresSchema)

type jsonStructure struct {
	Type   string            `json:"type"`
	Block  string            `json:"block"`
	X      int               `json:"x"`
	Y      int               `json:"y"`
	Z      int               `json:"z"`
	ToX    *int              `json:"toX"`
	ToY    *int              `json:"toY"`
	ToZ    *int              `json:"toZ"`
	States map[string]string `json:"states"`
}

type jsonPayload struct {
	Size       []int           `json:"size"`
	Structures []jsonStructure `json:"structures"`
}

// Parse extracts block placements from raw model output. Candidate payloads
// are fenced code blocks when present, the whole text otherwise. A candidate
// that looks like JSON must validate against the structures schema; everything
// else goes through the line grammar, where non-matching lines are skipped and
// counted as warnings. Zero valid placements is ErrNoPlacements.
func Parse(raw string) (*ParseResult, error) {
	res := &ParseResult{}

	candidates := extractFenced(raw)
	if len(candidates) == 0 {
		candidates = []string{raw}
	}

	for _, cand := range candidates {
		trimmed := strings.TrimSpace(cand)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "{") {
			if err := parseJSONPayload(trimmed, res); err != nil {
				res.Warnings = append(res.Warnings, fmt.Sprintf("json payload rejected: %v", err))
			}
			continue
		}
		parseLines(trimmed, res)
	}

	if len(res.Placements) == 0 {
		if len(res.Warnings) > 0 {
			return nil, fmt.Errorf("%w (%d lines skipped)", ErrNoPlacements, len(res.Warnings))
		}
		return nil, ErrNoPlacements
	}
	return res, nil
}

// extractFenced returns the contents of fenced code blocks in the markdown
// model output, in document order.
func extractFenced(raw string) []string {
	src := []byte(raw)
	doc := goldmark.New().Parser().Parse(gmtext.NewReader(src))
	var blocks []string
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		fc, ok := n.(*gmast.FencedCodeBlock)
		if !ok {
			return gmast.WalkContinue, nil
		}
		var sb strings.Builder
		lines := fc.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			sb.Write(seg.Value(src))
		}
		blocks = append(blocks, sb.String())
		return gmast.WalkContinue, nil
	})
	return blocks
}

func parseJSONPayload(trimmed string, res *ParseResult) error {
	var generic any
	if err := json.Unmarshal([]byte(trimmed), &generic); err != nil {
		return err
	}
	if err := structuresSchemaCompiled.Validate(generic); err != nil {
		return err
	}
	var payload jsonPayload
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return err
	}

	if len(payload.Size) == 3 {
		res.DeclaredSize = &[3]int{payload.Size[0], payload.Size[1], payload.Size[2]}
	}

	for _, s := range payload.Structures {
		block, states := parseBlockToken(s.Block)
		for k, v := range s.States {
			if states == nil {
				states = make(map[string]string)
			}
			states[k] = v
		}
		switch s.Type {
		case "fill":
			if s.ToX == nil || s.ToY == nil || s.ToZ == nil {
				res.Warnings = append(res.Warnings, fmt.Sprintf("fill for %s missing toX/toY/toZ, treated as setblock", s.Block))
				res.Placements = append(res.Placements, placement(s.X, s.Y, s.Z, block, states))
				continue
			}
			expandFill(res, s.X, s.Y, s.Z, *s.ToX, *s.ToY, *s.ToZ, block, states)
		default:
			res.Placements = append(res.Placements, placement(s.X, s.Y, s.Z, block, states))
		}
	}
	return nil
}

func parseLines(text string, res *ParseResult) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if m := setblockRe.FindStringSubmatch(line); m != nil {
			x, y, z, ok := parseCoords(m[1], m[2], m[3])
			if !ok {
				res.Warnings = append(res.Warnings, fmt.Sprintf("relative coordinates not supported: %q", line))
				continue
			}
			block, states := parseBlockToken(m[4])
			res.Placements = append(res.Placements, placement(x, y, z, block, states))
			continue
		}
		if m := fillRe.FindStringSubmatch(line); m != nil {
			x1, y1, z1, ok1 := parseCoords(m[1], m[2], m[3])
			x2, y2, z2, ok2 := parseCoords(m[4], m[5], m[6])
			if !ok1 || !ok2 {
				res.Warnings = append(res.Warnings, fmt.Sprintf("relative coordinates not supported: %q", line))
				continue
			}
			block, states := parseBlockToken(m[7])
			expandFill(res, x1, y1, z1, x2, y2, z2, block, states)
			continue
		}
		res.Warnings = append(res.Warnings, fmt.Sprintf("skipped unrecognized line: %q", line))
	}
}

func placement(x, y, z int, block string, states map[string]string) BlockPlacement {
	return BlockPlacement{X: x, Y: y, Z: z, Block: block, States: states}
}

func parseCoords(xs, ys, zs string) (x, y, z int, ok bool) {
	for _, s := range []string{xs, ys, zs} {
		if strings.HasPrefix(s, "~") {
			return 0, 0, 0, false
		}
	}
	x, _ = strconv.Atoi(xs)
	y, _ = strconv.Atoi(ys)
	z, _ = strconv.Atoi(zs)
	return x, y, z, true
}

// parseBlockToken splits "minecraft:oak_stairs[facing=north,half=top]" into
// the block id and its state attributes.
func parseBlockToken(token string) (string, map[string]string) {
	open := strings.IndexByte(token, '[')
	if open < 0 {
		return token, nil
	}
	id := token[:open]
	body := strings.TrimSuffix(token[open+1:], "]")
	states := make(map[string]string)
	for _, part := range strings.Split(body, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, found := strings.Cut(part, "=")
		if !found {
			v = "true"
		}
		states[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	if len(states) == 0 {
		return id, nil
	}
	return id, states
}

// expandFill appends one placement per block of the region, normalizing
// reversed corners. Oversized regions are dropped with a warning instead of
// expanding into millions of placements.
func expandFill(res *ParseResult, x1, y1, z1, x2, y2, z2 int, block string, states map[string]string) {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	if z2 < z1 {
		z1, z2 = z2, z1
	}
	if x2-x1 >= maxAxis || y2-y1 >= maxAxis || z2-z1 >= maxAxis {
		res.Warnings = append(res.Warnings, fmt.Sprintf("fill region for %s exceeds %d blocks per axis, skipped", block, maxAxis))
		return
	}
	if int64(x2-x1+1)*int64(y2-y1+1)*int64(z2-z1+1) > maxVolume {
		res.Warnings = append(res.Warnings, fmt.Sprintf("fill region for %s exceeds %d blocks, skipped", block, maxVolume))
		return
	}
	for y := y1; y <= y2; y++ {
		for z := z1; z <= z2; z++ {
			for x := x1; x <= x2; x++ {
				var st map[string]string
				if states != nil {
					st = make(map[string]string, len(states))
					for k, v := range states {
						st[k] = v
					}
				}
				res.Placements = append(res.Placements, placement(x, y, z, block, st))
			}
		}
	}
}
