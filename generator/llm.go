package generator

import "context"

// LLMClient is the narrow capability interface the component needs from the
// host's provider wiring: submit a prompt, get text back. Nothing here
// depends on a concrete provider SDK.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Prompt carries the system instructions and user text for one completion.
// ImageDataURL, when set, is a data: URL of a reference image the model should
// reproduce; clients without multimodal support may ignore it.
type Prompt struct {
	System       string
	User         string
	ImageDataURL string
}

// LLMSettings is the provider configuration handed to concrete clients.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}
