// Package component glues the prompt orchestrator to the structure encoder
// and the artifact writer. This is the surface a host framework embeds: one
// Generate call per user action, no state between calls.
package component

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"

	"buildergpt/artifact"
	"buildergpt/generator"
	"buildergpt/schematic"
)

// ProviderError marks a failed LLM call. The wrapped error is the provider's
// own, surfaced verbatim; the component never retries.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string { return e.Err.Error() }
func (e *ProviderError) Unwrap() error { return e.Err }

// Request is one generation ask. ImageDataURL optionally carries a reference
// image (data: URL) the model should reproduce.
type Request struct {
	Description  string
	Version      string
	Format       schematic.ExportFormat
	ImageDataURL string
}

// Result describes one successful generation.
type Result struct {
	Path       string   `json:"path"`
	File       string   `json:"file"`
	Name       string   `json:"name"`
	Format     string   `json:"format"`
	Placements int      `json:"placements"`
	Size       [3]int   `json:"size"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Component is one configured BuilderGPT instance.
type Component struct {
	agent  *generator.Agent
	writer *artifact.Writer
	policy schematic.BlockPolicy
	log    zerolog.Logger
}

func New(agent *generator.Agent, writer *artifact.Writer, policy schematic.BlockPolicy, log zerolog.Logger) (*Component, error) {
	if agent == nil {
		return nil, fmt.Errorf("agent is required")
	}
	if writer == nil {
		return nil, fmt.Errorf("artifact writer is required")
	}
	return &Component{agent: agent, writer: writer, policy: policy, log: log}, nil
}

// Generate runs the whole flow: description -> model -> placements -> file.
// Parse warnings ride along on the result; every error aborts before any
// file reaches the output directory.
func (c *Component) Generate(ctx context.Context, req Request) (*Result, error) {
	// Fail on a bad version selector before spending a model call.
	if _, err := schematic.LookupDataVersion(req.Version); err != nil {
		return nil, err
	}

	raw, err := c.agent.Generate(ctx, generator.Request{
		Description:  req.Description,
		Version:      req.Version,
		ImageDataURL: req.ImageDataURL,
	})
	if err != nil {
		return nil, &ProviderError{Err: err}
	}

	parsed, err := schematic.Parse(raw)
	if err != nil {
		return nil, err
	}
	doc, err := schematic.BuildDocument(parsed, req.Version, c.policy)
	if err != nil {
		return nil, err
	}

	name := c.agent.SuggestName(ctx, req.Description)

	path, err := c.writer.Write(name, req.Format.Ext(), req.Description, func(w io.Writer) error {
		return doc.Encode(req.Format, w)
	})
	if err != nil {
		return nil, err
	}

	c.log.Info().
		Str("version", doc.Version).
		Str("format", req.Format.String()).
		Int("placements", len(doc.Placements)).
		Int("warnings", len(doc.Warnings)).
		Msg("generation complete")

	return &Result{
		Path:       path,
		File:       filepath.Base(path),
		Name:       name,
		Format:     req.Format.String(),
		Placements: len(doc.Placements),
		Size:       doc.Size,
		Warnings:   doc.Warnings,
	}, nil
}
