package schematic

import (
	"fmt"
	"sort"
	"strings"
)

// dataVersions maps a Java Edition release to the DataVersion constant written
// into the .schem header. WorldEdit uses this value to decide whether block
// ids need migration on import.
var dataVersions = map[string]int{
	"1.12.2": 1343,
	"1.13.2": 1631,
	"1.14.4": 1976,
	"1.15.2": 2230,
	"1.16.1": 2567,
	"1.16.4": 2584,
	"1.16.5": 2586,
	"1.17":   2724,
	"1.17.1": 2730,
	"1.18":   2860,
	"1.18.2": 2975,
	"1.19":   3105,
	"1.19.2": 3120,
	"1.19.4": 3337,
	"1.20":   3463,
	"1.20.1": 3465,
	"1.20.2": 3578,
	"1.20.4": 3700,
	"1.20.6": 3839,
	"1.21":   3953,
	"1.21.1": 3955,
	"1.21.4": 4189,
}

// NormalizeVersion accepts either "1.20.1" or the tag form "JE_1_20_1" and
// returns the dotted release string.
func NormalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if rest, ok := strings.CutPrefix(v, "JE_"); ok {
		v = strings.ReplaceAll(rest, "_", ".")
	}
	return v
}

// LookupDataVersion resolves a Minecraft version selector to its DataVersion.
// Unknown versions are a hard error raised before any LLM call is made.
func LookupDataVersion(v string) (int, error) {
	norm := NormalizeVersion(v)
	dv, ok := dataVersions[norm]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownVersion, v)
	}
	return dv, nil
}

// KnownVersions lists supported versions, newest first, for the UI selector.
func KnownVersions() []string {
	out := make([]string, 0, len(dataVersions))
	for v := range dataVersions {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return dataVersions[out[i]] > dataVersions[out[j]] })
	return out
}
