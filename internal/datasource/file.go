package datasource

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/treepick/pkg/store"
)

// FileSource reads both tables from one JSON document:
//
//	{"folders": {"columns": [...], "data": [...]}, "items": {...}}
type FileSource struct {
	Path string
}

type fileDocument struct {
	Folders Table `json:"folders"`
	Items   Table `json:"items"`
}

// Fetch implements store.Source.
func (s *FileSource) Fetch(ctx context.Context) (store.Payload, error) {
	if err := ctx.Err(); err != nil {
		return store.Payload{}, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return store.Payload{}, fmt.Errorf("reading %s: %w", s.Path, err)
	}
	return DecodeDocument(data)
}

// DecodeDocument decodes a combined folders/items document.
func DecodeDocument(data []byte) (store.Payload, error) {
	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return store.Payload{}, fmt.Errorf("decoding document: %w", err)
	}
	folders, err := DecodeFolders(doc.Folders)
	if err != nil {
		return store.Payload{}, err
	}
	items, err := DecodeItems(doc.Items)
	if err != nil {
		return store.Payload{}, err
	}
	return store.Payload{Folders: folders, Items: items}, nil
}

// EncodeDocument is the inverse of DecodeDocument.
func EncodeDocument(p store.Payload) ([]byte, error) {
	doc := fileDocument{
		Folders: Table{Columns: []string{"id", "title", "parent_id"}},
		Items:   Table{Columns: []string{"id", "title", "folder_id"}},
	}
	for _, f := range p.Folders {
		r, err := encodeRow(f.ID, f.Title, f.ParentID)
		if err != nil {
			return nil, err
		}
		doc.Folders.Data = append(doc.Folders.Data, r)
	}
	for _, it := range p.Items {
		r, err := encodeRow(it.ID, it.Title, it.FolderID)
		if err != nil {
			return nil, err
		}
		doc.Items.Data = append(doc.Items.Data, r)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func encodeRow(id int64, title string, parent *int64) ([]json.RawMessage, error) {
	row := make([]json.RawMessage, 3)
	for i, v := range []any{id, title, parent} {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding row %d: %w", id, err)
		}
		row[i] = b
	}
	return row, nil
}
