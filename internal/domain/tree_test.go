package domain

import (
	"testing"
)

func ptr(f float64) *float64 { return &f }

func fixtureCategories() []Category {
	return []Category{
		{ID: "c1", Name: "Tools", Status: StatusActive},
		{ID: "c2", Name: "Scripts", ParentID: "c1", Status: StatusActive},
	}
}

func TestBuildCategoryTreeOrdering(t *testing.T) {
	categories := []Category{
		{ID: "p3", Name: "Third", Order: ptr(3), Status: StatusActive},
		{ID: "p0a", Name: "NoOrderA", Status: StatusActive},
		{ID: "p1", Name: "First", Order: ptr(1), Status: StatusActive},
		{ID: "p0b", Name: "NoOrderB", Order: ptr(0), Status: StatusActive},
		{ID: "k2", Name: "Child2", ParentID: "p1", Order: ptr(2), Status: StatusActive},
		{ID: "k1", Name: "Child1", ParentID: "p1", Order: ptr(1), Status: StatusActive},
		{ID: "hidden", Name: "Hidden", Status: "archived"},
	}

	tree := BuildCategoryTree(categories)

	wantParents := []string{"p0a", "p0b", "p1", "p3"}
	if len(tree.Parents) != len(wantParents) {
		t.Fatalf("Parents = %d, want %d", len(tree.Parents), len(wantParents))
	}
	for i, id := range wantParents {
		if tree.Parents[i].Category.ID != id {
			t.Errorf("Parents[%d] = %s, want %s", i, tree.Parents[i].Category.ID, id)
		}
	}

	children := tree.Parents[2].Children
	if len(children) != 2 || children[0].ID != "k1" || children[1].ID != "k2" {
		t.Errorf("children of p1 = %v, want [k1 k2]", children)
	}

	if _, ok := tree.ByID("hidden"); ok {
		t.Error("inactive category should not be indexed")
	}
}

func TestBuildCategoryTreeStatusIsCaseSensitive(t *testing.T) {
	tree := BuildCategoryTree([]Category{
		{ID: "a", Name: "A", Status: "Active"},
		{ID: "b", Name: "B", Status: StatusActive},
	})

	if len(tree.Parents) != 1 || tree.Parents[0].Category.ID != "b" {
		t.Errorf("Parents = %v, want only b", tree.Parents)
	}
}

func TestBuildCategoryTreeRejectsThirdLevel(t *testing.T) {
	categories := []Category{
		{ID: "root", Name: "Root", Status: StatusActive},
		{ID: "child", Name: "Child", ParentID: "root", Status: StatusActive},
		{ID: "grandchild", Name: "Grandchild", ParentID: "child", Status: StatusActive},
		{ID: "orphan", Name: "Orphan", ParentID: "missing", Status: StatusActive},
		{ID: "self", Name: "Self", ParentID: "self", Status: StatusActive},
	}

	tree := BuildCategoryTree(categories)

	if len(tree.Rejected) != 3 {
		t.Fatalf("Rejected = %d, want 3", len(tree.Rejected))
	}
	for _, name := range []string{"Grandchild", "Orphan", "Self"} {
		if _, ok := tree.ByName(name); ok {
			t.Errorf("ByName(%q) found a rejected category", name)
		}
	}
	if len(tree.Parents) != 1 || len(tree.Parents[0].Children) != 1 {
		t.Fatalf("tree shape = %+v, want one root with one child", tree.Parents)
	}

	g := AssignItems([]LinkItem{{ID: "i1", Category: "Grandchild"}}, tree)
	if len(g.UnmatchedItems) != 1 {
		t.Errorf("item on a rejected category should be unmatched, got %+v", g)
	}
}

func TestBuildCategoryTreeChildOfInactiveParent(t *testing.T) {
	tree := BuildCategoryTree([]Category{
		{ID: "p", Name: "P", Status: "hidden"},
		{ID: "c", Name: "C", ParentID: "p", Status: StatusActive},
	})

	if !tree.Empty() {
		t.Error("tree should be empty")
	}
	if len(tree.Rejected) != 1 {
		t.Errorf("Rejected = %d, want 1", len(tree.Rejected))
	}
}

func TestAssignItems(t *testing.T) {
	categories := append(fixtureCategories(),
		Category{ID: "c3", Name: "Media", Status: StatusActive},
		Category{ID: "c4", Name: "Players", ParentID: "c3", Status: StatusActive},
	)
	tree := BuildCategoryTree(categories)

	tests := []struct {
		name       string
		item       LinkItem
		wantParent string
		wantChild  string // empty = directly under parent
		unmatched  bool
	}{
		{
			name:       "category names a child",
			item:       LinkItem{ID: "a", Category: "Scripts"},
			wantParent: "c1",
			wantChild:  "c2",
		},
		{
			name:       "category names a parent",
			item:       LinkItem{ID: "b", Category: "Tools"},
			wantParent: "c1",
		},
		{
			name:       "case insensitive match",
			item:       LinkItem{ID: "c", Category: "tOOLS"},
			wantParent: "c1",
		},
		{
			name:       "subcategory of the same parent",
			item:       LinkItem{ID: "d", Category: "Tools", Subcategory: "scripts"},
			wantParent: "c1",
			wantChild:  "c2",
		},
		{
			name:       "subcategory of another parent is ignored",
			item:       LinkItem{ID: "e", Category: "Tools", Subcategory: "Players"},
			wantParent: "c1",
		},
		{
			name:      "unknown category",
			item:      LinkItem{ID: "f", Category: "Unknown"},
			unmatched: true,
		},
		{
			name:      "empty category",
			item:      LinkItem{ID: "g"},
			unmatched: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := AssignItems([]LinkItem{tt.item}, tree)

			if len(g.Groups) != 2 {
				t.Fatalf("Groups = %d, want 2 (every parent is listed)", len(g.Groups))
			}

			if tt.unmatched {
				if len(g.UnmatchedItems) != 1 || g.UnmatchedItems[0].ID != tt.item.ID {
					t.Errorf("UnmatchedItems = %v, want [%s]", g.UnmatchedItems, tt.item.ID)
				}
				return
			}

			parent, child := locate(g, tt.item.ID)
			if parent != tt.wantParent || child != tt.wantChild {
				t.Errorf("slot = (%q, %q), want (%q, %q)", parent, child, tt.wantParent, tt.wantChild)
			}
		})
	}
}

func TestAssignItemsEmptyParentsStillListed(t *testing.T) {
	tree := BuildCategoryTree(fixtureCategories())
	g := AssignItems(nil, tree)

	if len(g.Groups) != 1 {
		t.Fatalf("Groups = %d, want 1", len(g.Groups))
	}
	if g.Groups[0].Items == nil || len(g.Groups[0].Items) != 0 {
		t.Errorf("parent items = %v, want empty non-nil slice", g.Groups[0].Items)
	}
	if len(g.Groups[0].Children) != 1 || g.Groups[0].Children[0].Items == nil {
		t.Errorf("children = %+v, want one child with empty items", g.Groups[0].Children)
	}
	if g.UnmatchedItems == nil {
		t.Error("UnmatchedItems should be an empty non-nil slice")
	}
}

func locate(g Grouping, id string) (parent, child string) {
	for _, group := range g.Groups {
		for _, it := range group.Items {
			if it.ID == id {
				return group.Parent.ID, ""
			}
		}
		for _, c := range group.Children {
			for _, it := range c.Items {
				if it.ID == id {
					return group.Parent.ID, c.Category.ID
				}
			}
		}
	}
	return "", ""
}
