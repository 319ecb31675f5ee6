// Package artifact owns the generated/ directory: deterministic file naming,
// atomic writes, and the manifest of produced files.
package artifact

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const manifestName = "manifest.json"

// DefaultDir is where artifacts land when output_dir is not configured.
const DefaultDir = "generated"

// Entry is one manifest record.
type Entry struct {
	File        string    `json:"file"`
	Description string    `json:"description"`
	Kind        string    `json:"kind"`
	CreatedAt   time.Time `json:"created_at"`
}

// Writer writes artifacts into a single output directory. One writer per
// process; the mutex only guards the manifest, concurrent generations from
// the web page never target the same file.
type Writer struct {
	dir string
	log zerolog.Logger
	mu  sync.Mutex
}

func NewWriter(dir string, log zerolog.Logger) *Writer {
	if dir == "" {
		dir = DefaultDir
	}
	return &Writer{dir: dir, log: log}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// Write streams encode into a fresh file named <slug>-<uuid>.<ext>. The body
// goes to a temporary path first and is renamed into place only after encode
// succeeds, so a failed generation leaves nothing behind.
func (w *Writer) Write(slug, ext, description string, encode func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.%s", sanitizeSlug(slug), uuid.NewString(), ext)
	final := filepath.Join(w.dir, name)

	tmp, err := os.CreateTemp(w.dir, name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if err := encode(tmp); err != nil {
		cleanup()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, final); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("move artifact into place: %w", err)
	}

	w.record(Entry{File: name, Description: description, Kind: ext, CreatedAt: time.Now().UTC()})
	w.log.Info().Str("file", name).Str("kind", ext).Msg("artifact written")
	return final, nil
}

// Has reports whether name is a manifest-recorded artifact. The download
// handler uses this so only files this component produced are served.
func (w *Writer) Has(name string) bool {
	for _, e := range w.Manifest() {
		if e.File == name {
			return true
		}
	}
	return false
}

// Manifest returns all recorded entries, oldest first.
func (w *Writer) Manifest() []Entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	entries, err := w.readManifest()
	if err != nil {
		w.log.Warn().Err(err).Msg("manifest unreadable")
		return nil
	}
	return entries
}

func (w *Writer) record(e Entry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	entries, err := w.readManifest()
	if err != nil {
		// Corrupt manifest is not fatal: log and start over.
		w.log.Warn().Err(err).Msg("manifest corrupt, rewriting")
		entries = nil
	}
	entries = append(entries, e)
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		w.log.Warn().Err(err).Msg("manifest encode failed")
		return
	}
	if err := os.WriteFile(filepath.Join(w.dir, manifestName), data, 0o644); err != nil {
		w.log.Warn().Err(err).Msg("manifest write failed")
	}
}

func (w *Writer) readManifest() ([]Entry, error) {
	data, err := os.ReadFile(filepath.Join(w.dir, manifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// sanitizeSlug keeps lowercase letters, digits, and hyphens so model-suggested
// names cannot escape the output directory or upset the filesystem.
func sanitizeSlug(slug string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))
	var sb strings.Builder
	lastHyphen := false
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	out := strings.Trim(sb.String(), "-")
	if out == "" {
		return "structure"
	}
	if len(out) > 48 {
		out = out[:48]
	}
	return strings.Trim(out, "-")
}
