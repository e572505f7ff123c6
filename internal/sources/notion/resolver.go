package notion

import "strings"

// Fields is a case-insensitive view of a record's property bag. Build it
// once per record and resolve every logical field against it.
type Fields struct {
	props map[string]PropertyValue
	keys  map[string]string // lowercased name -> actual name
}

// NewFields indexes props. When two names differ only by case, the one
// sorting first wins.
func NewFields(props map[string]PropertyValue) Fields {
	keys := make(map[string]string, len(props))
	for _, name := range sortedKeys(props) {
		lower := strings.ToLower(name)
		if _, taken := keys[lower]; !taken {
			keys[lower] = name
		}
	}
	return Fields{props: props, keys: keys}
}

// Get returns the property stored under name, ignoring case.
func (f Fields) Get(name string) (PropertyValue, bool) {
	actual, ok := f.keys[strings.ToLower(name)]
	if !ok {
		return PropertyValue{}, false
	}
	return f.props[actual], true
}

// Title returns the plain text of the record's title-kind property.
func (f Fields) Title() string {
	for _, name := range sortedKeys(f.props) {
		if v := f.props[name]; v.Kind == KindTitle {
			return PlainText(v.Text)
		}
	}
	return ""
}

// Resolver maps logical field names to actual record fields through a
// static synonym table keyed by the upper-cased logical name.
type Resolver struct {
	synonyms map[string][]string
}

// NewResolver copies synonyms, upper-casing its keys.
func NewResolver(synonyms map[string][]string) *Resolver {
	table := make(map[string][]string, len(synonyms))
	for k, v := range synonyms {
		key := strings.ToUpper(k)
		table[key] = append(table[key], v...)
	}
	return &Resolver{synonyms: table}
}

// Candidates lists the field names tried for logical, in order.
func (r *Resolver) Candidates(logical string) []string {
	syn := r.synonyms[strings.ToUpper(logical)]
	out := make([]string, 0, 1+len(syn))
	out = append(out, logical)
	return append(out, syn...)
}

// Resolve returns the first field matching logical or one of its synonyms.
func (r *Resolver) Resolve(f Fields, logical string) (PropertyValue, bool) {
	for _, name := range r.Candidates(logical) {
		if v, ok := f.Get(name); ok {
			return v, true
		}
	}
	return PropertyValue{}, false
}

// String resolves logical and returns its trimmed string form.
func (r *Resolver) String(f Fields, logical string) string {
	v, ok := r.Resolve(f, logical)
	if !ok {
		return ""
	}
	return strings.TrimSpace(ExtractString(v))
}

// MultiValue resolves logical as a list of values.
func (r *Resolver) MultiValue(f Fields, logical string) []string {
	v, ok := r.Resolve(f, logical)
	if !ok {
		return nil
	}
	return ExtractMultiValue(v)
}

// Number resolves logical as a finite number.
func (r *Resolver) Number(f Fields, logical string) (float64, bool) {
	v, ok := r.Resolve(f, logical)
	if !ok {
		return 0, false
	}
	return ExtractNumber(v)
}

// RelationIDs resolves logical as a relation.
func (r *Resolver) RelationIDs(f Fields, logical string) []string {
	v, ok := r.Resolve(f, logical)
	if !ok {
		return nil
	}
	return ExtractRelationIDs(v)
}
