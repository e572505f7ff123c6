package notion

import (
	"encoding/json"
	"fmt"
)

// RawRecord is one page of a Notion database as returned by the query
// endpoint. Partial records carry no property bag.
type RawRecord struct {
	ID           string                   `json:"id"`
	Properties   map[string]PropertyValue `json:"properties"`
	Icon         *IconRef                 `json:"icon"`
	Cover        *ImageRef                `json:"cover"`
	LastEditedAt string                   `json:"last_edited_time"`
}

// IsFull reports whether the record carries its property bag.
func (r RawRecord) IsFull() bool { return r.Properties != nil }

// HostedURL is the {"url": ...} payload of hosted files.
type HostedURL struct {
	URL string `json:"url"`
}

// ImageRef points at an image hosted either externally or by Notion.
type ImageRef struct {
	Type     string     `json:"type"`
	External *HostedURL `json:"external,omitempty"`
	File     *HostedURL `json:"file,omitempty"`
}

// URL prefers the externally hosted representation over the stored one.
func (i *ImageRef) URL() string {
	if i == nil {
		return ""
	}
	if i.External != nil && i.External.URL != "" {
		return i.External.URL
	}
	if i.File != nil {
		return i.File.URL
	}
	return ""
}

// IconRef is an ImageRef that may also be an emoji.
type IconRef struct {
	ImageRef
	Emoji string `json:"emoji,omitempty"`
}

// Value returns the emoji text or the hosted image URL.
func (i *IconRef) Value() string {
	if i == nil {
		return ""
	}
	if i.Type == "emoji" {
		return i.Emoji
	}
	return i.ImageRef.URL()
}

// FileRef is one entry of a files property.
type FileRef struct {
	Name string `json:"name"`
	ImageRef
}

// RichText is a single run of a title or rich_text property.
type RichText struct {
	PlainText string `json:"plain_text"`
}

// SelectOption is a select / multi_select option.
type SelectOption struct {
	Name string `json:"name"`
}

// PropertyKind is the closed set of property kinds navdeck understands.
type PropertyKind int

const (
	KindUnsupported PropertyKind = iota
	KindTitle
	KindRichText
	KindURL
	KindSelect
	KindMultiSelect
	KindNumber
	KindCheckbox
	KindFiles
	KindRelation
	KindEmail
	KindPhone
)

// Kinds lists every supported kind.
var Kinds = []PropertyKind{
	KindTitle, KindRichText, KindURL, KindSelect, KindMultiSelect, KindNumber,
	KindCheckbox, KindFiles, KindRelation, KindEmail, KindPhone,
}

var kindByType = map[string]PropertyKind{
	"title":        KindTitle,
	"rich_text":    KindRichText,
	"url":          KindURL,
	"select":       KindSelect,
	"multi_select": KindMultiSelect,
	"number":       KindNumber,
	"checkbox":     KindCheckbox,
	"files":        KindFiles,
	"relation":     KindRelation,
	"email":        KindEmail,
	"phone_number": KindPhone,
}

var kindNames = [...]string{
	KindUnsupported: "unsupported",
	KindTitle:       "title",
	KindRichText:    "rich_text",
	KindURL:         "url",
	KindSelect:      "select",
	KindMultiSelect: "multi_select",
	KindNumber:      "number",
	KindCheckbox:    "checkbox",
	KindFiles:       "files",
	KindRelation:    "relation",
	KindEmail:       "email",
	KindPhone:       "phone_number",
}

func (k PropertyKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnsupported]
	}
	return kindNames[k]
}

// PropertyValue is a tagged union over PropertyKind. Only the payload field
// matching Kind is meaningful:
//
//	Title, RichText       -> Text
//	URL, Email, Phone     -> Str
//	Select                -> Select (nil when no option is set)
//	MultiSelect           -> Options
//	Number                -> Number (nil when empty)
//	Checkbox              -> Checkbox
//	Files                 -> Files
//	Relation              -> Relation (record ids)
type PropertyValue struct {
	Kind PropertyKind
	Type string // upstream type tag, kept for unsupported kinds

	Text     []RichText
	Str      string
	Select   *SelectOption
	Options  []SelectOption
	Number   *float64
	Checkbox bool
	Files    []FileRef
	Relation []string
}

// UnmarshalJSON decodes only the payload keyed by the property's type tag,
// so unknown kinds never fail decoding.
func (p *PropertyValue) UnmarshalJSON(data []byte) error {
	var head map[string]json.RawMessage
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("property: %w", err)
	}

	var typ string
	if raw, ok := head["type"]; ok {
		if err := json.Unmarshal(raw, &typ); err != nil {
			return fmt.Errorf("property type: %w", err)
		}
	}

	*p = PropertyValue{Type: typ, Kind: kindByType[typ]}

	payload, ok := head[typ]
	if !ok || p.Kind == KindUnsupported {
		return nil
	}

	var err error
	switch p.Kind {
	case KindTitle, KindRichText:
		err = json.Unmarshal(payload, &p.Text)
	case KindURL, KindEmail, KindPhone:
		var s *string
		err = json.Unmarshal(payload, &s)
		if s != nil {
			p.Str = *s
		}
	case KindSelect:
		err = json.Unmarshal(payload, &p.Select)
	case KindMultiSelect:
		err = json.Unmarshal(payload, &p.Options)
	case KindNumber:
		err = json.Unmarshal(payload, &p.Number)
	case KindCheckbox:
		err = json.Unmarshal(payload, &p.Checkbox)
	case KindFiles:
		err = json.Unmarshal(payload, &p.Files)
	case KindRelation:
		var refs []struct {
			ID string `json:"id"`
		}
		err = json.Unmarshal(payload, &refs)
		for _, ref := range refs {
			p.Relation = append(p.Relation, ref.ID)
		}
	}
	if err != nil {
		return fmt.Errorf("property %s: %w", typ, err)
	}
	return nil
}

// Database is the subset of a Notion database object navdeck reads.
type Database struct {
	ID         string                      `json:"id"`
	Title      []RichText                  `json:"title"`
	Icon       *IconRef                    `json:"icon"`
	Cover      *ImageRef                   `json:"cover"`
	Properties map[string]DatabaseProperty `json:"properties"`
}

// DatabaseProperty is a column of the database schema.
type DatabaseProperty struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Type   string        `json:"type"`
	Select *SelectConfig `json:"select,omitempty"`
}

// SelectConfig lists the options of a select column.
type SelectConfig struct {
	Options []SelectOption `json:"options"`
}

// QueryRequest is the body of a database query.
type QueryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size"`
}

// QueryResponse is one page of query results. Results stays nil when the
// body carries no results array.
type QueryResponse struct {
	Results    []RawRecord `json:"results"`
	HasMore    bool        `json:"has_more"`
	NextCursor *string     `json:"next_cursor"`
}
