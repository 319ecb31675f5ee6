package generator

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM is a stub client for local runs and tests. It never calls out: the
// build prompt yields a 3x3x3 stone cube, the name prompt a fixed slug.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	if strings.Contains(prompt.System, "file name") {
		return "stone-cube", nil
	}
	var sb strings.Builder
	sb.WriteString("Here is your structure:\n\n```\n")
	for y := 0; y < 3; y++ {
		for z := 0; z < 3; z++ {
			for x := 0; x < 3; x++ {
				fmt.Fprintf(&sb, "setblock %d %d %d minecraft:stone\n", x, y, z)
			}
		}
	}
	sb.WriteString("```\n")
	return sb.String(), nil
}
