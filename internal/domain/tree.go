package domain

import (
	"cmp"
	"slices"
)

// CategoryNode is a root category with its ordered children.
type CategoryNode struct {
	Category Category
	Children []Category
}

// CategoryTree is the two-level category hierarchy built from the active
// categories of the config source.
type CategoryTree struct {
	// Parents are the root categories, ascending by order.
	Parents []CategoryNode

	// Rejected holds active children whose parent is missing, inactive
	// or itself a child. They are absent from every lookup.
	Rejected []Category

	byID   map[string]Category
	byName map[string]Category // lowercased name -> category
}

// BuildCategoryTree keeps active categories only, splits them into roots and
// children and sorts both by order (missing order = 0, stable on ties).
// A child pointing to anything but an active root is rejected, so the tree
// never grows past two levels.
func BuildCategoryTree(categories []Category) *CategoryTree {
	roots := make(map[string]Category)
	for _, c := range categories {
		if c.IsActive() && !c.IsChild() {
			roots[c.ID] = c
		}
	}

	tree := &CategoryTree{
		byID:   make(map[string]Category, len(categories)),
		byName: make(map[string]Category, len(categories)),
	}

	var parents []Category
	childrenByParent := make(map[string][]Category)

	for _, c := range categories {
		if !c.IsActive() {
			continue
		}
		if c.IsChild() {
			if _, ok := roots[c.ParentID]; !ok {
				tree.Rejected = append(tree.Rejected, c)
				continue
			}
			childrenByParent[c.ParentID] = append(childrenByParent[c.ParentID], c)
		} else {
			parents = append(parents, c)
		}
		tree.byID[c.ID] = c
		tree.byName[nameKey(c.Name)] = c
	}

	sortCategories(parents)
	tree.Parents = make([]CategoryNode, 0, len(parents))
	for _, p := range parents {
		children := childrenByParent[p.ID]
		sortCategories(children)
		tree.Parents = append(tree.Parents, CategoryNode{Category: p, Children: children})
	}

	return tree
}

func sortCategories(cs []Category) {
	slices.SortStableFunc(cs, func(a, b Category) int {
		return cmp.Compare(a.sortOrder(), b.sortOrder())
	})
}

// ByID looks up a category kept by the tree.
func (t *CategoryTree) ByID(id string) (Category, bool) {
	c, ok := t.byID[id]
	return c, ok
}

// ByName looks up a category kept by the tree, case-insensitively.
func (t *CategoryTree) ByName(name string) (Category, bool) {
	if name == "" {
		return Category{}, false
	}
	c, ok := t.byName[nameKey(name)]
	return c, ok
}

// Empty reports whether the tree has no root category.
func (t *CategoryTree) Empty() bool {
	return t == nil || len(t.Parents) == 0
}

// ChildGroup is a child category with the items slotted under it.
type ChildGroup struct {
	Category Category   `json:"category"`
	Items    []LinkItem `json:"items"`
}

// CategoryGroup is a root category with its direct items and child slots.
// Every root of the tree yields a group, even without items.
type CategoryGroup struct {
	Parent   Category     `json:"parent"`
	Items    []LinkItem   `json:"items"`
	Children []ChildGroup `json:"children"`
}

// Grouping is the result of slotting items into a CategoryTree.
type Grouping struct {
	Groups         []CategoryGroup `json:"groups"`
	UnmatchedItems []LinkItem      `json:"unmatchedItems"`
}

// AssignItems slots each item into a (parent, optional child) position.
//
//   - category names a child: parent is the child's parent, slot is the child
//   - subcategory names a child of the resolved parent: slot is that child
//   - otherwise the item goes directly under the parent
//   - no category match: the item is unmatched
//
// Item order inside a slot follows input order.
func AssignItems(items []LinkItem, tree *CategoryTree) Grouping {
	if tree == nil {
		tree = BuildCategoryTree(nil)
	}

	itemsByParent := make(map[string][]LinkItem)
	itemsByChild := make(map[string][]LinkItem)
	unmatched := make([]LinkItem, 0)

	for _, item := range items {
		match, ok := tree.ByName(item.Category)
		if !ok {
			unmatched = append(unmatched, item)
			continue
		}

		parent := match
		var child *Category
		if match.IsChild() {
			parent, ok = tree.ByID(match.ParentID)
			if !ok {
				unmatched = append(unmatched, item)
				continue
			}
			child = &match
		}

		if sub, ok := tree.ByName(item.Subcategory); ok && sub.ParentID == parent.ID {
			child = &sub
		}

		if child != nil {
			itemsByChild[child.ID] = append(itemsByChild[child.ID], item)
			continue
		}
		itemsByParent[parent.ID] = append(itemsByParent[parent.ID], item)
	}

	groups := make([]CategoryGroup, 0, len(tree.Parents))
	for _, node := range tree.Parents {
		children := make([]ChildGroup, 0, len(node.Children))
		for _, c := range node.Children {
			children = append(children, ChildGroup{
				Category: c,
				Items:    nonNil(itemsByChild[c.ID]),
			})
		}
		groups = append(groups, CategoryGroup{
			Parent:   node.Category,
			Items:    nonNil(itemsByParent[node.Category.ID]),
			Children: children,
		})
	}

	return Grouping{Groups: groups, UnmatchedItems: unmatched}
}

func nonNil(items []LinkItem) []LinkItem {
	if items == nil {
		return []LinkItem{}
	}
	return items
}
