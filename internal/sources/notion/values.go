package notion

// Constructors for building property bags by hand (fixtures, fakes).

func TitleValue(runs ...string) PropertyValue {
	return PropertyValue{Kind: KindTitle, Type: "title", Text: richText(runs)}
}

func RichTextValue(runs ...string) PropertyValue {
	return PropertyValue{Kind: KindRichText, Type: "rich_text", Text: richText(runs)}
}

func URLValue(s string) PropertyValue {
	return PropertyValue{Kind: KindURL, Type: "url", Str: s}
}

func EmailValue(s string) PropertyValue {
	return PropertyValue{Kind: KindEmail, Type: "email", Str: s}
}

func PhoneValue(s string) PropertyValue {
	return PropertyValue{Kind: KindPhone, Type: "phone_number", Str: s}
}

// SelectValue with an empty name models an unset select.
func SelectValue(name string) PropertyValue {
	v := PropertyValue{Kind: KindSelect, Type: "select"}
	if name != "" {
		v.Select = &SelectOption{Name: name}
	}
	return v
}

func MultiSelectValue(names ...string) PropertyValue {
	opts := make([]SelectOption, 0, len(names))
	for _, n := range names {
		opts = append(opts, SelectOption{Name: n})
	}
	return PropertyValue{Kind: KindMultiSelect, Type: "multi_select", Options: opts}
}

func NumberValue(n float64) PropertyValue {
	return PropertyValue{Kind: KindNumber, Type: "number", Number: &n}
}

func CheckboxValue(b bool) PropertyValue {
	return PropertyValue{Kind: KindCheckbox, Type: "checkbox", Checkbox: b}
}

func FilesValue(files ...FileRef) PropertyValue {
	return PropertyValue{Kind: KindFiles, Type: "files", Files: files}
}

func RelationValue(ids ...string) PropertyValue {
	return PropertyValue{Kind: KindRelation, Type: "relation", Relation: ids}
}

// ExternalFile and StoredFile build FileRef entries.
func ExternalFile(url string) FileRef {
	return FileRef{ImageRef: ImageRef{Type: "external", External: &HostedURL{URL: url}}}
}

func StoredFile(url string) FileRef {
	return FileRef{ImageRef: ImageRef{Type: "file", File: &HostedURL{URL: url}}}
}

func richText(runs []string) []RichText {
	out := make([]RichText, 0, len(runs))
	for _, r := range runs {
		out = append(out, RichText{PlainText: r})
	}
	return out
}
