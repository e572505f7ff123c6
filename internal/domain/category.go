package domain

import "strings"

// StatusActive is the only category status kept by the category tree.
const StatusActive = "active"

// Category is a node of the two-level category hierarchy.
// A Category with a ParentID is a child; its parent must be a root.
type Category struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	ParentID string   `json:"parentId,omitempty"`
	Order    *float64 `json:"order,omitempty"`
	Status   string   `json:"status"`
}

// IsChild reports whether the category declares a parent.
func (c Category) IsChild() bool { return c.ParentID != "" }

// IsActive is an exact, case-sensitive match against StatusActive.
func (c Category) IsActive() bool { return c.Status == StatusActive }

// sortOrder treats a missing order as 0.
func (c Category) sortOrder() float64 {
	if c.Order == nil {
		return 0
	}
	return *c.Order
}

// ConfigEntry is a flat site setting coming from the config source.
type ConfigEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SiteConfig is the key/value view of all ConfigEntry records.
// Later entries overwrite earlier ones with the same key.
type SiteConfig map[string]string

// NewSiteConfig folds entries into a SiteConfig.
func NewSiteConfig(entries []ConfigEntry) SiteConfig {
	cfg := make(SiteConfig, len(entries))
	for _, e := range entries {
		cfg[e.Key] = e.Value
	}
	return cfg
}

// DatabaseMetadata describes the link source itself.
type DatabaseMetadata struct {
	Title string `json:"title"`
	Icon  string `json:"icon"`
	Cover string `json:"cover"`
}

func trimSpace(s string) string { return strings.TrimSpace(s) }

func nameKey(s string) string { return strings.ToLower(s) }
