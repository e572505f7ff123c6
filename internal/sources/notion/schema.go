package notion

import "slices"

// Logical field names read from records.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldURL         = "url"
	FieldLanURL      = "lanurl"
	FieldAvatar      = "avatar"
	FieldRoles       = "roles"
	FieldTarget      = "target"
	FieldStatus      = "status"
	FieldCategory    = "category"
	FieldSubcategory = "subcategory"
	FieldType        = "type"
	FieldName        = "name"
	FieldValue       = "value"
	FieldOrder       = "order"
	FieldParent      = "parent"
)

// Config record discriminators.
const (
	ConfigTypeSite     = "site"
	ConfigTypeCategory = "category"
)

// Schema holds the locale-specific business rules applied while
// normalizing records. The zero value is not usable; start from
// DefaultSchema.
type Schema struct {
	// Synonyms maps an upper-cased logical field name to alternate
	// record field names, tried in order after the logical name itself.
	Synonyms map[string][]string `yaml:"synonyms"`

	// ActiveStatuses are the exact status values that keep a link item.
	ActiveStatuses []string `yaml:"active_statuses"`

	// FilterInactive drops link items whose status is not active.
	FilterInactive bool `yaml:"filter_inactive"`

	DefaultStatus    string `yaml:"default_status"`
	FallbackCategory string `yaml:"fallback_category"`
	DefaultTitle     string `yaml:"default_title"`
}

// DefaultSchema returns the built-in rules.
func DefaultSchema() Schema {
	return Schema{
		Synonyms: map[string][]string{
			"TITLE":       {"名称", "标题", "name"},
			"DESCRIPTION": {"描述", "简介", "desc"},
			"URL":         {"链接", "地址", "href", "link"},
			"LANURL":      {"内网链接", "内网地址", "lan_url", "lanHref"},
			"AVATAR":      {"图标", "头像", "icon"},
			"ROLES":       {"角色", "role"},
			"TARGET":      {"打开方式"},
			"STATUS":      {"状态"},
			"CATEGORY":    {"分类", "类别"},
			"SUBCATEGORY": {"子分类", "二级分类"},
			"TYPE":        {"类型"},
			"NAME":        {"名称", "键"},
			"VALUE":       {"值", "内容"},
			"ORDER":       {"排序", "顺序", "sort"},
			"PARENT":      {"父级", "父分类", "parentId"},
		},
		ActiveStatuses:   []string{"显示", "active", "Active"},
		FilterInactive:   true,
		DefaultStatus:    "active",
		FallbackCategory: "其他",
		DefaultTitle:     "导航页",
	}
}

// IsActiveStatus reports whether status exactly matches an active value.
func (s Schema) IsActiveStatus(status string) bool {
	return slices.Contains(s.ActiveStatuses, status)
}

// Resolver builds the field resolver for the synonym table.
func (s Schema) Resolver() *Resolver {
	return NewResolver(s.Synonyms)
}
