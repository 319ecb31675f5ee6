package schematic

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"
)

// BlockPolicy decides what happens when the model names a block id that is not
// in the allow-list. The choice is explicit configuration, never inferred.
type BlockPolicy int

const (
	// PolicySubstitute rewrites unknown block ids to minecraft:air and records
	// a warning. This is the default: model typos should not kill a build.
	PolicySubstitute BlockPolicy = iota
	// PolicyStrict fails the generation with an EncodingError.
	PolicyStrict
)

// ParseBlockPolicy parses the block_policy config value.
func ParseBlockPolicy(s string) (BlockPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "substitute":
		return PolicySubstitute, nil
	case "strict":
		return PolicyStrict, nil
	}
	return 0, fmt.Errorf("unknown block_policy %q (want substitute or strict)", s)
}

//go:embed blocks.txt
var blockListRaw string

var (
	blockSetOnce sync.Once
	blockSet     map[string]struct{}
)

func knownBlocks() map[string]struct{} {
	blockSetOnce.Do(func() {
		blockSet = make(map[string]struct{})
		for _, line := range strings.Split(blockListRaw, "\n") {
			name := strings.TrimSpace(line)
			if name == "" {
				continue
			}
			blockSet["minecraft:"+name] = struct{}{}
		}
	})
	return blockSet
}

// NormalizeBlockID lowercases a block id and prefixes the minecraft namespace
// when the model omitted it.
func NormalizeBlockID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return id
	}
	if !strings.Contains(id, ":") {
		id = "minecraft:" + id
	}
	return id
}

// KnownBlock reports whether the normalized id is in the embedded allow-list.
// Ids outside the minecraft namespace are accepted as-is: modded ids are the
// user's own business and cannot be validated here.
func KnownBlock(id string) bool {
	if !strings.HasPrefix(id, "minecraft:") {
		return true
	}
	_, ok := knownBlocks()[id]
	return ok
}

// BlockList returns the embedded allow-list text for prompt interpolation.
func BlockList() string {
	return strings.TrimSpace(blockListRaw)
}
