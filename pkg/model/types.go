// Package model defines the folder/item records supplied by data sources and
// the namespaced node form the tree, selection and collapse engines work on.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// FolderIDPrefix namespaces folder node ids so they never collide with item ids.
const FolderIDPrefix = "folder_"

// Folder is a raw folder record as delivered by a data source.
type Folder struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	ParentID *int64 `json:"parent_id"` // nil = root folder
}

// Item is a raw item record as delivered by a data source.
type Item struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	FolderID *int64 `json:"folder_id"` // nil = unattached, shown at root
}

// Validate checks that the folder has a usable id.
func (f Folder) Validate() error {
	if f.ID < 0 {
		return fmt.Errorf("folder id must be non-negative, got %d", f.ID)
	}
	if f.ParentID != nil && *f.ParentID < 0 {
		return fmt.Errorf("folder %d: parent id must be non-negative, got %d", f.ID, *f.ParentID)
	}
	return nil
}

// Validate checks that the item has a usable id.
func (i Item) Validate() error {
	if i.ID < 0 {
		return fmt.Errorf("item id must be non-negative, got %d", i.ID)
	}
	if i.FolderID != nil && *i.FolderID < 0 {
		return fmt.Errorf("item %d: folder id must be non-negative, got %d", i.ID, *i.FolderID)
	}
	return nil
}

// Kind distinguishes leaves from containers.
type Kind int

const (
	KindItem Kind = iota
	KindFolder
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindItem:
		return "item"
	case KindFolder:
		return "folder"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Selection is the tri-state selection of a node. Items are only ever
// Selected or Unselected; Indeterminate is derived for folders.
type Selection int

const (
	Unselected Selection = iota
	Indeterminate
	Selected
)

// String returns the lower-case selection name.
func (s Selection) String() string {
	switch s {
	case Unselected:
		return "unselected"
	case Indeterminate:
		return "indeterminate"
	case Selected:
		return "selected"
	default:
		return fmt.Sprintf("selection(%d)", int(s))
	}
}

// MarshalText renders the selection by name.
func (s Selection) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Entity is the flat, namespaced record the store keeps between loads.
// The forest is rebuilt from entities on every read.
type Entity struct {
	ID       string
	Title    string
	Kind     Kind
	ParentID *string
}

// Node is one folder or item in a derived forest.
type Node struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Kind      Kind      `json:"kind"`
	ParentID  *string   `json:"parent_id"`
	Children  []*Node   `json:"children,omitempty"`
	Collapsed bool      `json:"collapsed,omitempty"`
	Selection Selection `json:"selection"`
}

// IsFolder reports whether the node is a folder.
func (n *Node) IsFolder() bool {
	return n != nil && n.Kind == KindFolder
}

// IsItem reports whether the node is an item.
func (n *Node) IsItem() bool {
	return n != nil && n.Kind == KindItem
}

// FolderNodeID returns the namespaced node id for a folder id.
func FolderNodeID(id int64) string {
	return FolderIDPrefix + strconv.FormatInt(id, 10)
}

// ItemNodeID returns the node id for an item id. Items keep their bare number.
func ItemNodeID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// IsFolderNodeID reports whether id lives in the folder namespace.
func IsFolderNodeID(id string) bool {
	return strings.HasPrefix(id, FolderIDPrefix)
}

func folderRef(id *int64) *string {
	if id == nil {
		return nil
	}
	ref := FolderNodeID(*id)
	return &ref
}

// FromFolders translates raw folders into namespaced entities, preserving order.
func FromFolders(folders []Folder) []Entity {
	out := make([]Entity, 0, len(folders))
	for _, f := range folders {
		out = append(out, Entity{
			ID:       FolderNodeID(f.ID),
			Title:    f.Title,
			Kind:     KindFolder,
			ParentID: folderRef(f.ParentID),
		})
	}
	return out
}

// FromItems translates raw items into namespaced entities, preserving order.
func FromItems(items []Item) []Entity {
	out := make([]Entity, 0, len(items))
	for _, it := range items {
		out = append(out, Entity{
			ID:       ItemNodeID(it.ID),
			Title:    it.Title,
			Kind:     KindItem,
			ParentID: folderRef(it.FolderID),
		})
	}
	return out
}

// Int64 returns a pointer to v. Handy for building Folder/Item literals.
func Int64(v int64) *int64 {
	return &v
}
