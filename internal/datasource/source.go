package datasource

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanderheijden86/treepick/pkg/config"
	"github.com/vanderheijden86/treepick/pkg/model"
	"github.com/vanderheijden86/treepick/pkg/store"
)

// ErrUnknownSource is returned by Open for an unrecognised source type.
var ErrUnknownSource = errors.New("unknown source type")

// Open builds the source described by cfg.
func Open(cfg config.SourceConfig) (store.Source, error) {
	switch cfg.Type {
	case config.SourceHTTP, "":
		url := cfg.URL
		if url == "" {
			url = config.DefaultURL
		}
		return NewHTTPSource(url, cfg.Timeout), nil
	case config.SourceSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite source: path is required")
		}
		return &SQLiteSource{Path: cfg.Path}, nil
	case config.SourceFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file source: path is required")
		}
		return &FileSource{Path: cfg.Path}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Type)
	}
}

// WatchPath returns the local file backing cfg, or "" for remote sources.
func WatchPath(cfg config.SourceConfig) string {
	switch cfg.Type {
	case config.SourceSQLite, config.SourceFile:
		return cfg.Path
	default:
		return ""
	}
}

// StaticSource serves a fixed payload, or Err when set.
type StaticSource struct {
	Payload store.Payload
	Err     error
}

// Fetch implements store.Source. Each call returns fresh slices.
func (s *StaticSource) Fetch(ctx context.Context) (store.Payload, error) {
	if err := ctx.Err(); err != nil {
		return store.Payload{}, err
	}
	if s.Err != nil {
		return store.Payload{}, s.Err
	}
	return store.Payload{
		Folders: append([]model.Folder(nil), s.Payload.Folders...),
		Items:   append([]model.Item(nil), s.Payload.Items...),
	}, nil
}
