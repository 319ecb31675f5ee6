package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Request describes one generation: what to build, for which game version,
// optionally with a reference image the model should reproduce.
type Request struct {
	Description  string
	Version      string
	ImageDataURL string
}

// Agent is the prompt orchestrator: it builds the request prompt, performs
// exactly one completion call, and hands the raw text back. It holds no state
// across calls; provider errors propagate unchanged.
type Agent struct {
	llm       LLMClient
	blockList string
	log       zerolog.Logger
}

func NewAgent(llm LLMClient, blockList string, log zerolog.Logger) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	return &Agent{llm: llm, blockList: blockList, log: log}, nil
}

// Generate asks the model for block placements and returns its raw text.
func (a *Agent) Generate(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Description) == "" {
		return "", errors.New("description is required")
	}
	prompt, err := BuildGeneratePrompt(req.Description, req.Version, a.blockList)
	if err != nil {
		return "", err
	}
	prompt.ImageDataURL = req.ImageDataURL
	a.log.Debug().Str("version", req.Version).Int("prompt_bytes", len(prompt.System)+len(prompt.User)).Msg("requesting completion")
	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("llm completion: %w", err)
	}
	a.log.Debug().Int("completion_bytes", len(raw)).Msg("completion received")
	return raw, nil
}

// SuggestName asks the model for a short file-name slug. Naming is cosmetic,
// so any failure falls back to "structure" instead of failing the generation.
func (a *Agent) SuggestName(ctx context.Context, description string) string {
	prompt, err := BuildNamePrompt(description)
	if err != nil {
		return "structure"
	}
	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		a.log.Warn().Err(err).Msg("name suggestion failed, using fallback")
		return "structure"
	}
	name := strings.TrimSpace(raw)
	if name == "" {
		return "structure"
	}
	return name
}
