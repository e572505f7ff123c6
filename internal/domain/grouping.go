package domain

import (
	"cmp"
	"slices"
)

// ViewMode tells the renderer which shape a View carries.
type ViewMode string

const (
	ViewFlat         ViewMode = "flat"
	ViewHierarchical ViewMode = "hierarchical"
)

// Bucket is a flat category bucket.
type Bucket struct {
	Name  string     `json:"name"`
	Items []LinkItem `json:"items"`
}

// View is the filtered, sorted and ordered model handed to the renderer.
// Flat views fill Buckets, hierarchical views fill Groups and UnmatchedItems.
type View struct {
	Mode           ViewMode        `json:"mode"`
	Buckets        []Bucket        `json:"buckets,omitempty"`
	Groups         []CategoryGroup `json:"groups,omitempty"`
	UnmatchedItems []LinkItem      `json:"unmatchedItems,omitempty"`
}

// GroupForViewer builds the view of items visible to viewerRole.
//
// The hierarchical shape is used whenever tree has at least one root;
// otherwise items are bucketed by category name and buckets are ordered by
// preferredOrder first, then by first appearance.
// Inside every bucket items are sorted by LastEditedTime, newest first.
func GroupForViewer(items []LinkItem, viewerRole string, preferredOrder []string, tree *CategoryTree) View {
	visible := FilterByRole(items, viewerRole)

	if !tree.Empty() {
		g := AssignItems(visible, tree)
		for i := range g.Groups {
			SortByLastEdited(g.Groups[i].Items)
			for j := range g.Groups[i].Children {
				SortByLastEdited(g.Groups[i].Children[j].Items)
			}
		}
		SortByLastEdited(g.UnmatchedItems)
		return View{
			Mode:           ViewHierarchical,
			Groups:         g.Groups,
			UnmatchedItems: g.UnmatchedItems,
		}
	}

	return View{
		Mode:    ViewFlat,
		Buckets: GroupFlat(visible, preferredOrder),
	}
}

// FilterByRole keeps items whose role set contains role.
func FilterByRole(items []LinkItem, role string) []LinkItem {
	out := make([]LinkItem, 0, len(items))
	for _, item := range items {
		if item.HasRole(role) {
			out = append(out, item)
		}
	}
	return out
}

// SortByLastEdited sorts in place, newest first. Equal timestamps keep
// their relative order.
func SortByLastEdited(items []LinkItem) {
	slices.SortStableFunc(items, func(a, b LinkItem) int {
		return cmp.Compare(b.LastEditedTime, a.LastEditedTime)
	})
}

// GroupFlat buckets items by category name, sorts each bucket and orders
// the buckets with OrderBuckets.
func GroupFlat(items []LinkItem, preferredOrder []string) []Bucket {
	byName := make(map[string][]LinkItem)
	var seen []string
	for _, item := range items {
		if _, ok := byName[item.Category]; !ok {
			seen = append(seen, item.Category)
		}
		byName[item.Category] = append(byName[item.Category], item)
	}

	names := OrderBuckets(seen, preferredOrder)
	buckets := make([]Bucket, 0, len(names))
	for _, name := range names {
		bucket := byName[name]
		SortByLastEdited(bucket)
		buckets = append(buckets, Bucket{Name: name, Items: bucket})
	}
	return buckets
}

// OrderBuckets returns the observed names reordered so that names listed in
// preferred come first, in preferred order; the rest keep observed order.
// Preferred names that were not observed are skipped.
func OrderBuckets(observed, preferred []string) []string {
	present := make(map[string]bool, len(observed))
	for _, name := range observed {
		present[name] = true
	}

	out := make([]string, 0, len(observed))
	placed := make(map[string]bool, len(observed))
	for _, name := range preferred {
		if present[name] && !placed[name] {
			out = append(out, name)
			placed[name] = true
		}
	}
	for _, name := range observed {
		if !placed[name] {
			out = append(out, name)
			placed[name] = true
		}
	}
	return out
}
