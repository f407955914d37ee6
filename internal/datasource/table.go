// Package datasource fetches folders and items for the tree store.
//
// Every source speaks the same tabular shape the data server uses: a list of
// column names and rows of positional values, zipped into records by column
// name. Sources differ only in where the two tables come from.
package datasource

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/treepick/pkg/model"
)

// Table is one {"columns": [...], "data": [[...], ...]} response.
type Table struct {
	Columns []string            `json:"columns"`
	Data    [][]json.RawMessage `json:"data"`
}

// Row is one data row zipped against the column names. Columns the row is
// too short for are absent; extra trailing values are dropped.
type Row map[string]json.RawMessage

// ParseTable decodes a column/row document.
func ParseTable(data []byte) (Table, error) {
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("decoding table: %w", err)
	}
	return t, nil
}

// Rows zips every data row against the columns.
func (t Table) Rows() []Row {
	rows := make([]Row, 0, len(t.Data))
	for _, values := range t.Data {
		row := make(Row, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(values) {
				row[col] = values[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func (t Table) hasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// DecodeFolders turns a folders table (id, title, parent_id) into folders.
// Column order does not matter; id is required, the others may be missing.
// A table with no rows needs no columns.
func DecodeFolders(t Table) ([]model.Folder, error) {
	if !t.hasColumn("id") && len(t.Data) > 0 {
		return nil, fmt.Errorf("folders: missing id column")
	}
	folders := make([]model.Folder, 0, len(t.Data))
	for i, row := range t.Rows() {
		id, err := requiredID(row, "id")
		if err != nil {
			return nil, fmt.Errorf("folders row %d: %w", i, err)
		}
		parent, err := optionalID(row, "parent_id")
		if err != nil {
			return nil, fmt.Errorf("folders row %d: %w", i, err)
		}
		folders = append(folders, model.Folder{ID: id, Title: text(row["title"]), ParentID: parent})
	}
	return folders, nil
}

// DecodeItems turns an items table (id, title, folder_id) into items.
func DecodeItems(t Table) ([]model.Item, error) {
	if !t.hasColumn("id") && len(t.Data) > 0 {
		return nil, fmt.Errorf("items: missing id column")
	}
	items := make([]model.Item, 0, len(t.Data))
	for i, row := range t.Rows() {
		id, err := requiredID(row, "id")
		if err != nil {
			return nil, fmt.Errorf("items row %d: %w", i, err)
		}
		folder, err := optionalID(row, "folder_id")
		if err != nil {
			return nil, fmt.Errorf("items row %d: %w", i, err)
		}
		items = append(items, model.Item{ID: id, Title: text(row["title"]), FolderID: folder})
	}
	return items, nil
}

var null = []byte("null")

func requiredID(row Row, col string) (int64, error) {
	id, err := optionalID(row, col)
	if err != nil {
		return 0, err
	}
	if id == nil {
		return 0, fmt.Errorf("%s is null", col)
	}
	return *id, nil
}

// optionalID accepts a JSON integer, a numeric string, or null.
func optionalID(row Row, col string) (*int64, error) {
	raw, ok := row[col]
	if !ok {
		return nil, nil
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, null) {
		return nil, nil
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%s: %w", col, err)
		}
		if s == "" {
			return nil, nil
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: not an integer: %s", col, raw)
	}
	return &n, nil
}

// text renders a title cell. Non-string scalars keep their JSON spelling.
func text(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, null) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}
