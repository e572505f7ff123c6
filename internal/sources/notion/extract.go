package notion

import (
	"math"
	"strconv"
	"strings"
)

// PlainText concatenates the plain-text runs in order.
func PlainText(runs []RichText) string {
	if len(runs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.PlainText)
	}
	return b.String()
}

// ExtractString renders any property as a string. Unsupported kinds and
// empty payloads yield "".
func ExtractString(v PropertyValue) string {
	switch v.Kind {
	case KindTitle, KindRichText:
		return PlainText(v.Text)
	case KindURL, KindEmail, KindPhone:
		return v.Str
	case KindSelect:
		if v.Select == nil {
			return ""
		}
		return v.Select.Name
	case KindMultiSelect:
		names := make([]string, 0, len(v.Options))
		for _, o := range v.Options {
			names = append(names, o.Name)
		}
		return strings.Join(names, ",")
	case KindNumber:
		if v.Number == nil {
			return ""
		}
		return strconv.FormatFloat(*v.Number, 'f', -1, 64)
	case KindCheckbox:
		return strconv.FormatBool(v.Checkbox)
	case KindFiles:
		if len(v.Files) == 0 {
			return ""
		}
		return v.Files[0].URL()
	case KindRelation:
		return strings.Join(v.Relation, ",")
	case KindUnsupported:
		return ""
	}
	return ""
}

// ExtractMultiValue returns trimmed, non-empty values. A select becomes a
// singleton list; other kinds are split on commas of their string form.
func ExtractMultiValue(v PropertyValue) []string {
	var raw []string
	switch v.Kind {
	case KindMultiSelect:
		for _, o := range v.Options {
			raw = append(raw, o.Name)
		}
	case KindSelect:
		if v.Select != nil {
			raw = []string{v.Select.Name}
		}
	case KindRelation:
		raw = v.Relation
	default:
		if s := ExtractString(v); s != "" {
			raw = strings.Split(s, ",")
		}
	}

	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// ExtractNumber returns the number payload, or parses the string form of
// other kinds. Non-finite results are reported as absent.
func ExtractNumber(v PropertyValue) (float64, bool) {
	if v.Kind == KindNumber {
		if v.Number == nil || !finite(*v.Number) {
			return 0, false
		}
		return *v.Number, true
	}

	s := strings.TrimSpace(ExtractString(v))
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(n) {
		return 0, false
	}
	return n, true
}

// ExtractRelationIDs returns the referenced record ids in order; other kinds
// yield nothing.
func ExtractRelationIDs(v PropertyValue) []string {
	if v.Kind != KindRelation {
		return nil
	}
	out := make([]string, len(v.Relation))
	copy(out, v.Relation)
	return out
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
