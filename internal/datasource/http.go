package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/treepick/pkg/debug"
	"github.com/vanderheijden86/treepick/pkg/model"
	"github.com/vanderheijden86/treepick/pkg/store"
)

// maxTableBytes caps a single response body.
const maxTableBytes = 64 << 20

// HTTPSource fetches GET {BaseURL}/folders and GET {BaseURL}/items in
// parallel and combines them into one payload.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource returns a source for baseURL whose requests time out after
// timeout (0 means no client-side timeout).
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// Fetch implements store.Source. Either request failing fails the whole fetch.
func (s *HTTPSource) Fetch(ctx context.Context) (store.Payload, error) {
	var folders []model.Folder
	var items []model.Item

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.getTable(gctx, "/folders")
		if err != nil {
			return err
		}
		folders, err = DecodeFolders(t)
		return err
	})
	g.Go(func() error {
		t, err := s.getTable(gctx, "/items")
		if err != nil {
			return err
		}
		items, err = DecodeItems(t)
		return err
	})
	if err := g.Wait(); err != nil {
		return store.Payload{}, err
	}

	debug.Log("http source %s: %d folders, %d items", s.BaseURL, len(folders), len(items))
	return store.Payload{Folders: folders, Items: items}, nil
}

func (s *HTTPSource) getTable(ctx context.Context, path string) (Table, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	url := strings.TrimRight(s.BaseURL, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Table{}, fmt.Errorf("GET %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return Table{}, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Table{}, fmt.Errorf("GET %s: %s", path, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTableBytes))
	if err != nil {
		return Table{}, fmt.Errorf("GET %s: reading body: %w", path, err)
	}
	t, err := ParseTable(body)
	if err != nil {
		return Table{}, fmt.Errorf("GET %s: %w", path, err)
	}
	return t, nil
}
