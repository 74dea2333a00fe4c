package versepack

import (
	"context"
	"fmt"
	"os"
)

// ──────────────────────────────────────────────
// Pack sources
// ──────────────────────────────────────────────

// Source loads a verse pack from a backing store: the compiled-in starter
// data, a YAML file on disk, or the content database.
type Source interface {
	Load(ctx context.Context) (*Pack, error)
}

// EmbeddedSource serves the compiled-in starter pack. It is the zero-config
// default and needs no network or filesystem access.
type EmbeddedSource struct{}

func (EmbeddedSource) Load(ctx context.Context) (*Pack, error) {
	return LoadEmbedded()
}

// FileSource loads a pack from a YAML file with the same layout as the
// embedded one.
type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) (*Pack, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read pack file: %w", err)
	}
	return ParsePack(data)
}
