package notion

import (
	"sort"
	"strings"
	"time"

	"github.com/MrSnakeDoc/navdeck/internal/domain"
	"github.com/MrSnakeDoc/navdeck/internal/logger"
)

// SourceKind tells Normalize how to read a record.
type SourceKind int

const (
	// SourceLinks records are all attempted as link items.
	SourceLinks SourceKind = iota
	// SourceConfig records carry a type discriminator.
	SourceConfig
)

// EntityKind says which field of an Entity is set.
type EntityKind int

const (
	EntityNone EntityKind = iota
	EntityLink
	EntityCategory
	EntityConfig
)

// Entity is the outcome of normalizing one record.
type Entity struct {
	Kind     EntityKind
	Link     domain.LinkItem
	Category domain.Category
	Config   domain.ConfigEntry
}

// Mapper converts raw records into domain entities. Records that cannot
// become an entity are dropped with a debug diagnostic, never an error.
type Mapper struct {
	schema   Schema
	resolver *Resolver
	log      logger.Logger
}

func NewMapper(schema Schema, log logger.Logger) *Mapper {
	return &Mapper{
		schema:   schema,
		resolver: schema.Resolver(),
		log:      log,
	}
}

// Schema returns the rules the mapper was built with.
func (m *Mapper) Schema() Schema { return m.schema }

// Normalize maps rec according to the kind of source it came from.
func (m *Mapper) Normalize(rec RawRecord, src SourceKind) Entity {
	if !rec.IsFull() {
		m.drop(rec, "partial record")
		return Entity{}
	}
	if src == SourceConfig {
		return m.mapConfigRecord(rec)
	}
	item, ok := m.MapLinkItem(rec)
	if !ok {
		return Entity{}
	}
	return Entity{Kind: EntityLink, Link: item}
}

// MapLinkItem builds a LinkItem from rec. It reports false when the record
// is partial, inactive or lacks a title or href.
func (m *Mapper) MapLinkItem(rec RawRecord) (domain.LinkItem, bool) {
	if !rec.IsFull() {
		m.drop(rec, "partial record")
		return domain.LinkItem{}, false
	}

	f := NewFields(rec.Properties)
	r := m.resolver

	status := r.String(f, FieldStatus)
	if status == "" {
		status = m.schema.DefaultStatus
	}
	if m.schema.FilterInactive && !m.schema.IsActiveStatus(status) {
		m.drop(rec, "inactive", logger.String("status", status))
		return domain.LinkItem{}, false
	}

	title := r.String(f, FieldTitle)
	if title == "" {
		title = strings.TrimSpace(f.Title())
	}
	href := r.String(f, FieldURL)
	if title == "" || href == "" {
		m.drop(rec, "missing title or href")
		return domain.LinkItem{}, false
	}

	avatar := r.String(f, FieldAvatar)
	if avatar == "" {
		avatar = strings.TrimSpace(rec.Icon.Value())
	}

	category := r.String(f, FieldCategory)
	if category == "" {
		category = m.schema.FallbackCategory
	}

	return domain.LinkItem{
		ID:             rec.ID,
		Title:          title,
		Description:    r.String(f, FieldDescription),
		Href:           href,
		LanHref:        r.String(f, FieldLanURL),
		Target:         r.String(f, FieldTarget),
		Avatar:         avatar,
		Roles:          domain.NormalizeRoles(r.MultiValue(f, FieldRoles)),
		Category:       category,
		Subcategory:    r.String(f, FieldSubcategory),
		LastEditedTime: ParseEditedTime(rec.LastEditedAt),
	}, true
}

// MapLinkItems maps every record, keeping input order.
func (m *Mapper) MapLinkItems(recs []RawRecord) []domain.LinkItem {
	items := make([]domain.LinkItem, 0, len(recs))
	for _, rec := range recs {
		if item, ok := m.MapLinkItem(rec); ok {
			items = append(items, item)
		}
	}
	return items
}

// MapConfig splits config-source records into site entries and categories.
func (m *Mapper) MapConfig(recs []RawRecord) ([]domain.ConfigEntry, []domain.Category) {
	entries := make([]domain.ConfigEntry, 0)
	categories := make([]domain.Category, 0)
	for _, rec := range recs {
		e := m.Normalize(rec, SourceConfig)
		switch e.Kind {
		case EntityConfig:
			entries = append(entries, e.Config)
		case EntityCategory:
			categories = append(categories, e.Category)
		}
	}
	return entries, categories
}

func (m *Mapper) mapConfigRecord(rec RawRecord) Entity {
	f := NewFields(rec.Properties)
	r := m.resolver

	name := r.String(f, FieldName)
	if name == "" {
		name = strings.TrimSpace(f.Title())
	}

	typ := strings.ToLower(r.String(f, FieldType))
	switch typ {
	case ConfigTypeSite:
		if name == "" {
			m.drop(rec, "site entry without key")
			return Entity{}
		}
		return Entity{Kind: EntityConfig, Config: domain.ConfigEntry{
			Key:   name,
			Value: r.String(f, FieldValue),
		}}

	case ConfigTypeCategory:
		if name == "" {
			m.drop(rec, "category without name")
			return Entity{}
		}
		status := r.String(f, FieldStatus)
		if status == "" {
			status = m.schema.DefaultStatus
		}
		c := domain.Category{ID: rec.ID, Name: name, Status: status}
		if order, ok := r.Number(f, FieldOrder); ok {
			c.Order = &order
		}
		if parents := r.RelationIDs(f, FieldParent); len(parents) > 0 {
			c.ParentID = parents[0]
		}
		return Entity{Kind: EntityCategory, Category: c}
	}

	m.drop(rec, "unknown config type", logger.String("type", typ))
	return Entity{}
}

// Metadata describes the link database. The title falls back to the
// schema default.
func (m *Mapper) Metadata(db Database) domain.DatabaseMetadata {
	title := strings.TrimSpace(PlainText(db.Title))
	if title == "" {
		title = m.schema.DefaultTitle
	}
	return domain.DatabaseMetadata{
		Title: title,
		Icon:  db.Icon.Value(),
		Cover: db.Cover.URL(),
	}
}

// CategoryOrder returns the option names of the database's category select
// column, or an empty list when there is none.
func (m *Mapper) CategoryOrder(db Database) []string {
	byName := make(map[string]DatabaseProperty, len(db.Properties))
	for _, key := range sortedKeys(db.Properties) {
		prop := db.Properties[key]
		name := prop.Name
		if name == "" {
			name = key
		}
		if _, taken := byName[strings.ToLower(name)]; !taken {
			byName[strings.ToLower(name)] = prop
		}
	}

	for _, candidate := range m.resolver.Candidates(FieldCategory) {
		prop, ok := byName[strings.ToLower(candidate)]
		if !ok || prop.Type != "select" || prop.Select == nil {
			continue
		}
		names := make([]string, 0, len(prop.Select.Options))
		for _, o := range prop.Select.Options {
			names = append(names, o.Name)
		}
		return names
	}
	return []string{}
}

// CollectRoles returns the distinct roles declared by full records, in
// first-seen order. Status is not considered.
func (m *Mapper) CollectRoles(recs []RawRecord) []string {
	seen := make(map[string]bool)
	roles := make([]string, 0)
	for _, rec := range recs {
		if !rec.IsFull() {
			continue
		}
		for _, role := range m.resolver.MultiValue(NewFields(rec.Properties), FieldRoles) {
			if !seen[role] {
				seen[role] = true
				roles = append(roles, role)
			}
		}
	}
	return roles
}

func (m *Mapper) drop(rec RawRecord, reason string, fields ...logger.Field) {
	fields = append(fields, logger.String("record_id", rec.ID), logger.String("reason", reason))
	m.log.Debug("record dropped", fields...)
}

// ParseEditedTime converts an RFC 3339 timestamp to epoch millis, 0 when it
// cannot be parsed.
func ParseEditedTime(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}

// sortedKeys is used where map iteration must be deterministic.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
