package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/treepick/pkg/debug"
	"github.com/vanderheijden86/treepick/pkg/model"
	"github.com/vanderheijden86/treepick/pkg/store"
)

// SQLiteSource reads a database with folders(id, title, parent_id) and
// items(id, title, folder_id) tables. Rows come back in rowid order so
// children keep their insertion order.
type SQLiteSource struct {
	Path string
}

const (
	foldersQuery = `SELECT id, title, parent_id FROM folders ORDER BY rowid`
	itemsQuery   = `SELECT id, title, folder_id FROM items ORDER BY rowid`
)

// Fetch implements store.Source. The database is opened read-only per fetch
// so a writer holding the file is never blocked for long.
func (s *SQLiteSource) Fetch(ctx context.Context) (store.Payload, error) {
	if _, err := os.Stat(s.Path); err != nil {
		return store.Payload{}, fmt.Errorf("sqlite source: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", s.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return store.Payload{}, fmt.Errorf("cannot open database: %w", err)
	}
	defer db.Close()

	folders, err := queryFolders(ctx, db)
	if err != nil {
		return store.Payload{}, err
	}
	items, err := queryItems(ctx, db)
	if err != nil {
		return store.Payload{}, err
	}

	debug.Log("sqlite source %s: %d folders, %d items", s.Path, len(folders), len(items))
	return store.Payload{Folders: folders, Items: items}, nil
}

func queryFolders(ctx context.Context, db *sql.DB) ([]model.Folder, error) {
	rows, err := db.QueryContext(ctx, foldersQuery)
	if err != nil {
		return nil, fmt.Errorf("querying folders: %w", err)
	}
	defer rows.Close()

	var folders []model.Folder
	for rows.Next() {
		var (
			f      model.Folder
			title  sql.NullString
			parent sql.NullInt64
		)
		if err := rows.Scan(&f.ID, &title, &parent); err != nil {
			return nil, fmt.Errorf("scanning folder: %w", err)
		}
		f.Title = title.String
		if parent.Valid {
			f.ParentID = model.Int64(parent.Int64)
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading folders: %w", err)
	}
	return folders, nil
}

func queryItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx, itemsQuery)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var (
			it     model.Item
			title  sql.NullString
			folder sql.NullInt64
		)
		if err := rows.Scan(&it.ID, &title, &folder); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		it.Title = title.String
		if folder.Valid {
			it.FolderID = model.Int64(folder.Int64)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading items: %w", err)
	}
	return items, nil
}
