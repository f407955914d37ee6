package watcher

import (
	"context"
	"errors"
	"log"
)

// Loader is the part of the store a reload needs.
type Loader interface {
	LoadData(ctx context.Context) <-chan struct{}
}

// Reload starts a watcher on path that calls loader.LoadData after each
// settled change. The watcher stops when ctx is cancelled. A removed file is
// logged and not reloaded, so the store keeps showing the last good data.
func Reload(ctx context.Context, path string, loader Loader, opts ...Option) (*Watcher, error) {
	base := []Option{
		WithOnChange(func() {
			loader.LoadData(ctx)
		}),
		WithOnError(func(err error) {
			if errors.Is(err, ErrFileRemoved) {
				log.Printf("warning: %s was removed; keeping last loaded data", path)
				return
			}
			log.Printf("warning: watching %s: %v", path, err)
		}),
	}
	w, err := New(path, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	return w, nil
}
