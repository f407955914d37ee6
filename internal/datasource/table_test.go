package datasource

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/treepick/pkg/model"
)

func TestParseTableAndRows(t *testing.T) {
	tbl, err := ParseTable([]byte(`{"columns":["id","title","parent_id"],"data":[[1,"Root",null],[2,"Child",1],[3]]}`))
	require.NoError(t, err)

	rows := tbl.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, `"Root"`, string(rows[0]["title"]))
	assert.Equal(t, "null", string(rows[0]["parent_id"]))
	_, ok := rows[2]["title"]
	assert.False(t, ok, "short rows leave trailing columns absent")
}

func TestParseTableInvalid(t *testing.T) {
	_, err := ParseTable([]byte(`{"columns":`))
	assert.Error(t, err)
}

func TestDecodeFolders(t *testing.T) {
	tbl, err := ParseTable([]byte(`{
		"columns": ["parent_id", "id", "title"],
		"data": [[null, 1, "Root"], [1, "2", "Child"], ["", 3, null], [99, 4, 7]]
	}`))
	require.NoError(t, err)

	folders, err := DecodeFolders(tbl)
	require.NoError(t, err)

	want := []model.Folder{
		{ID: 1, Title: "Root"},
		{ID: 2, Title: "Child", ParentID: model.Int64(1)},
		{ID: 3, Title: ""},
		{ID: 4, Title: "7", ParentID: model.Int64(99)},
	}
	assert.Equal(t, want, folders)
}

func TestDecodeItems(t *testing.T) {
	tbl, err := ParseTable([]byte(`{"columns":["id","title","folder_id"],"data":[[10,"a",1],[11,"b",null]]}`))
	require.NoError(t, err)

	items, err := DecodeItems(tbl)
	require.NoError(t, err)
	assert.Equal(t, []model.Item{
		{ID: 10, Title: "a", FolderID: model.Int64(1)},
		{ID: 11, Title: "b"},
	}, items)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"missing id column", `{"columns":["title"],"data":[["x"]]}`, "missing id column"},
		{"null id", `{"columns":["id"],"data":[[null]]}`, "id is null"},
		{"fractional id", `{"columns":["id"],"data":[[1.5]]}`, "not an integer"},
		{"word id", `{"columns":["id"],"data":[["abc"]]}`, "not an integer"},
		{"bad parent", `{"columns":["id","parent_id"],"data":[[1,true]]}`, "parent_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := ParseTable([]byte(tt.doc))
			require.NoError(t, err)
			_, err = DecodeFolders(tbl)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestDecodeEmptyTable(t *testing.T) {
	folders, err := DecodeFolders(Table{Columns: []string{"id", "title", "parent_id"}})
	require.NoError(t, err)
	assert.Empty(t, folders)

	// No columns at all is fine as long as there are no rows either.
	items, err := DecodeItems(Table{})
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = DecodeItems(Table{Data: [][]json.RawMessage{{json.RawMessage(`1`)}}})
	assert.ErrorContains(t, err, "missing id column")
}
