package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ids(items []LinkItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestFilterByRole(t *testing.T) {
	items := []LinkItem{
		{ID: "public", Roles: []string{"guest"}},
		{ID: "admin-only", Roles: []string{"admin"}},
		{ID: "both", Roles: []string{"admin", "guest"}},
		{ID: "defaulted", Roles: NormalizeRoles(nil)},
	}

	tests := []struct {
		role string
		want []string
	}{
		{role: "guest", want: []string{"public", "both", "defaulted"}},
		{role: "admin", want: []string{"admin-only", "both"}},
		{role: "nobody", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			got := ids(FilterByRole(items, tt.role))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterByRole(%q) mismatch (-want +got):\n%s", tt.role, diff)
			}
		})
	}
}

func TestSortByLastEditedIsStable(t *testing.T) {
	items := []LinkItem{
		{ID: "old", LastEditedTime: 100},
		{ID: "tie-1", LastEditedTime: 500},
		{ID: "unknown", LastEditedTime: 0},
		{ID: "tie-2", LastEditedTime: 500},
		{ID: "new", LastEditedTime: 900},
		{ID: "tie-3", LastEditedTime: 500},
	}

	SortByLastEdited(items)

	want := []string{"new", "tie-1", "tie-2", "tie-3", "old", "unknown"}
	if diff := cmp.Diff(want, ids(items)); diff != "" {
		t.Errorf("SortByLastEdited mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderBuckets(t *testing.T) {
	tests := []struct {
		name      string
		observed  []string
		preferred []string
		want      []string
	}{
		{
			name:      "preferred first then first seen",
			observed:  []string{"A", "B", "C"},
			preferred: []string{"B", "A"},
			want:      []string{"B", "A", "C"},
		},
		{
			name:      "unknown preferred names skipped",
			observed:  []string{"C", "A"},
			preferred: []string{"Z", "A"},
			want:      []string{"A", "C"},
		},
		{
			name:      "duplicates in preferred",
			observed:  []string{"A", "B"},
			preferred: []string{"B", "B"},
			want:      []string{"B", "A"},
		},
		{
			name:     "no preference",
			observed: []string{"X", "Y"},
			want:     []string{"X", "Y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OrderBuckets(tt.observed, tt.preferred)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("OrderBuckets() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGroupForViewerFlat(t *testing.T) {
	items := []LinkItem{
		{ID: "a1", Category: "A", Roles: []string{"guest"}, LastEditedTime: 1},
		{ID: "c1", Category: "C", Roles: []string{"guest"}},
		{ID: "b1", Category: "B", Roles: []string{"guest"}, LastEditedTime: 5},
		{ID: "a2", Category: "A", Roles: []string{"guest"}, LastEditedTime: 9},
		{ID: "secret", Category: "A", Roles: []string{"admin"}, LastEditedTime: 99},
	}

	view := GroupForViewer(items, "guest", []string{"B", "A"}, nil)

	if view.Mode != ViewFlat {
		t.Fatalf("Mode = %s, want %s", view.Mode, ViewFlat)
	}

	var names []string
	for _, b := range view.Buckets {
		names = append(names, b.Name)
	}
	if diff := cmp.Diff([]string{"B", "A", "C"}, names); diff != "" {
		t.Errorf("bucket order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a2", "a1"}, ids(view.Buckets[1].Items)); diff != "" {
		t.Errorf("bucket A mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupForViewerHierarchical(t *testing.T) {
	tree := BuildCategoryTree(fixtureCategories())
	items := []LinkItem{
		{ID: "s-old", Category: "Scripts", Roles: []string{"guest"}, LastEditedTime: 10},
		{ID: "s-new", Category: "Scripts", Roles: []string{"guest"}, LastEditedTime: 20},
		{ID: "t", Category: "Tools", Roles: []string{"guest"}},
		{ID: "lost", Category: "Unknown", Roles: []string{"guest"}},
		{ID: "hidden", Category: "Tools", Roles: []string{"admin"}},
	}

	view := GroupForViewer(items, "guest", nil, tree)

	if view.Mode != ViewHierarchical {
		t.Fatalf("Mode = %s, want %s", view.Mode, ViewHierarchical)
	}
	if len(view.Groups) != 1 {
		t.Fatalf("Groups = %d, want 1", len(view.Groups))
	}
	g := view.Groups[0]
	if diff := cmp.Diff([]string{"t"}, ids(g.Items)); diff != "" {
		t.Errorf("parent items mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"s-new", "s-old"}, ids(g.Children[0].Items)); diff != "" {
		t.Errorf("child items mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"lost"}, ids(view.UnmatchedItems)); diff != "" {
		t.Errorf("unmatched mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupForViewerFallsBackToFlatOnEmptyTree(t *testing.T) {
	tree := BuildCategoryTree([]Category{{ID: "x", Name: "X", Status: "draft"}})
	view := GroupForViewer([]LinkItem{{ID: "a", Category: "A", Roles: []string{"guest"}}}, "guest", nil, tree)

	if view.Mode != ViewFlat {
		t.Errorf("Mode = %s, want %s", view.Mode, ViewFlat)
	}
}
