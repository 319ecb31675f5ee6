package schematic

import (
	"errors"
	"fmt"
	"testing"
)

func TestLookupDataVersion(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"1.20.1", 3465},
		{"JE_1_20_1", 3465},
		{" 1.19.4 ", 3337},
		{"1.21", 3953},
	}
	for _, c := range cases {
		got, err := LookupDataVersion(c.in)
		if err != nil {
			t.Errorf("LookupDataVersion(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("LookupDataVersion(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestLookupDataVersion_Unknown(t *testing.T) {
	_, err := LookupDataVersion("1.8.9")
	if err == nil {
		t.Fatal("want error for unsupported version")
	}
	if !errors.Is(err, ErrUnknownVersion) {
		t.Errorf("err = %v, want ErrUnknownVersion sentinel", err)
	}
	if !errors.Is(fmt.Errorf("pre-check: %w", err), ErrUnknownVersion) {
		t.Error("sentinel must survive further wrapping")
	}
}

func TestKnownVersions_NewestFirst(t *testing.T) {
	versions := KnownVersions()
	if len(versions) < 10 {
		t.Fatalf("suspiciously few versions: %d", len(versions))
	}
	for i := 1; i < len(versions); i++ {
		if dataVersions[versions[i-1]] <= dataVersions[versions[i]] {
			t.Fatalf("versions not sorted newest first: %s before %s", versions[i-1], versions[i])
		}
	}
}

func TestNormalizeBlockID(t *testing.T) {
	cases := map[string]string{
		"stone":             "minecraft:stone",
		"  STONE ":          "minecraft:stone",
		"minecraft:stone":   "minecraft:stone",
		"create:brass_gear": "create:brass_gear",
	}
	for in, want := range cases {
		if got := NormalizeBlockID(in); got != want {
			t.Errorf("NormalizeBlockID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKnownBlock(t *testing.T) {
	if !KnownBlock("minecraft:stone") {
		t.Error("minecraft:stone should be known")
	}
	if KnownBlock("minecraft:not_a_real_block") {
		t.Error("made-up id should be unknown")
	}
	if !KnownBlock("create:brass_block") {
		t.Error("non-minecraft namespaces are accepted as-is")
	}
}

func TestParseBlockPolicy(t *testing.T) {
	if p, err := ParseBlockPolicy(""); err != nil || p != PolicySubstitute {
		t.Errorf("empty policy: %v %v", p, err)
	}
	if p, err := ParseBlockPolicy("strict"); err != nil || p != PolicyStrict {
		t.Errorf("strict policy: %v %v", p, err)
	}
	if _, err := ParseBlockPolicy("yolo"); err == nil {
		t.Error("want error for unknown policy")
	}
}
