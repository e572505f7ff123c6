package domain

import "slices"

// DefaultRole is granted to items that declare no roles.
const DefaultRole = "guest"

// LinkItem is one navigable entry of the navigation surface.
//
// It is NOT tied to the upstream datastore: the notion mapper builds it from
// a raw record and nothing downstream sees the property bag.
//
// A LinkItem is only constructed with a non-empty Title and Href.
type LinkItem struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is the upstream record id.
	ID string `json:"id"`

	// Title is the display name. Never empty.
	Title string `json:"title"`

	// Description is an optional one-line summary.
	Description string `json:"description"`

	// ─────────────────────────────
	// Targets
	// ─────────────────────────────

	// Href is the public URL. Never empty.
	Href string `json:"href"`

	// LanHref is an alternate URL used when the viewer is on the LAN.
	LanHref string `json:"lanHref,omitempty"`

	// Target is the link target hint (e.g. "_blank").
	Target string `json:"target,omitempty"`

	// Avatar is an image URL or an emoji.
	Avatar string `json:"avatar,omitempty"`

	// ─────────────────────────────
	// Gating & placement
	// ─────────────────────────────

	// Roles lists the viewer roles allowed to see the item.
	// Deduplicated, never empty (defaults to DefaultRole).
	Roles []string `json:"roles"`

	// Category is the category name as declared on the record.
	Category string `json:"category"`

	// Subcategory optionally names a child of Category.
	Subcategory string `json:"subcategory,omitempty"`

	// LastEditedTime is the record edit time in epoch millis, 0 if unknown.
	LastEditedTime int64 `json:"lastEditedTime"`
}

// HasRole reports whether role is one of the item's roles.
func (l LinkItem) HasRole(role string) bool {
	return slices.Contains(l.Roles, role)
}

// NormalizeRoles trims, drops empty and duplicate roles while keeping the
// declared order. An empty result becomes {DefaultRole}.
func NormalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = trimSpace(r)
		if r == "" || slices.Contains(out, r) {
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return []string{DefaultRole}
	}
	return out
}
