package model

import "testing"

func TestNamespacedIDsNeverCollide(t *testing.T) {
	if FolderNodeID(7) == ItemNodeID(7) {
		t.Fatalf("folder and item ids collide: %q", FolderNodeID(7))
	}
	if got := FolderNodeID(7); got != "folder_7" {
		t.Errorf("FolderNodeID(7) = %q, want folder_7", got)
	}
	if got := ItemNodeID(7); got != "7" {
		t.Errorf("ItemNodeID(7) = %q, want 7", got)
	}
	if !IsFolderNodeID("folder_7") || IsFolderNodeID("7") {
		t.Error("IsFolderNodeID misclassified ids")
	}
}

func TestFromFoldersRewritesParents(t *testing.T) {
	folders := []Folder{
		{ID: 1, Title: "A"},
		{ID: 2, Title: "B", ParentID: Int64(1)},
		// Zero is a real id, not "no parent".
		{ID: 3, Title: "C", ParentID: Int64(0)},
	}
	got := FromFolders(folders)
	if len(got) != 3 {
		t.Fatalf("expected 3 entities, got %d", len(got))
	}
	if got[0].ID != "folder_1" || got[0].ParentID != nil || got[0].Kind != KindFolder {
		t.Errorf("unexpected root folder entity: %+v", got[0])
	}
	if got[1].ParentID == nil || *got[1].ParentID != "folder_1" {
		t.Errorf("expected folder_2 parent folder_1, got %v", got[1].ParentID)
	}
	if got[2].ParentID == nil || *got[2].ParentID != "folder_0" {
		t.Errorf("expected folder_3 parent folder_0, got %v", got[2].ParentID)
	}
}

func TestFromItemsRewritesFolder(t *testing.T) {
	items := []Item{
		{ID: 10, Title: "x", FolderID: Int64(1)},
		{ID: 11, Title: "loose"},
	}
	got := FromItems(items)
	if got[0].ID != "10" || got[0].Kind != KindItem {
		t.Errorf("unexpected item entity: %+v", got[0])
	}
	if got[0].ParentID == nil || *got[0].ParentID != "folder_1" {
		t.Errorf("expected item parent folder_1, got %v", got[0].ParentID)
	}
	if got[1].ParentID != nil {
		t.Errorf("expected unattached item to have nil parent, got %v", *got[1].ParentID)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"folder ok", Folder{ID: 1}.Validate(), false},
		{"folder negative", Folder{ID: -1}.Validate(), true},
		{"folder negative parent", Folder{ID: 1, ParentID: Int64(-2)}.Validate(), true},
		{"item ok", Item{ID: 0, FolderID: Int64(3)}.Validate(), false},
		{"item negative", Item{ID: -4}.Validate(), true},
		{"item negative folder", Item{ID: 4, FolderID: Int64(-1)}.Validate(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if (tt.err != nil) != tt.wantErr {
				t.Errorf("got err %v, wantErr %v", tt.err, tt.wantErr)
			}
		})
	}
}

func TestSelectionString(t *testing.T) {
	for s, want := range map[Selection]string{
		Unselected:    "unselected",
		Indeterminate: "indeterminate",
		Selected:      "selected",
	} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
