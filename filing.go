package irs990

import (
	"regexp"
	"strconv"
)

// Kind enumerates selector result types.
type Kind string

// Kind constants for Selector and Value.
const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
)

// Value is one extracted filing field. The zero Value is the empty marker:
// the element was absent, its text was empty, or a numeric kind failed to
// parse. Present is false exactly in those cases.
type Value struct {
	Kind    Kind    `json:"kind"`
	Present bool    `json:"present"`
	Text    string  `json:"text,omitempty"`
	Int     int64   `json:"int,omitempty"`
	Float   float64 `json:"float,omitempty"`
}

// StringValue returns a present string Value.
func StringValue(s string) Value {
	return Value{Kind: KindString, Present: true, Text: s}
}

// IntValue returns a present int Value.
func IntValue(n int64) Value {
	return Value{Kind: KindInt, Present: true, Int: n}
}

// FloatValue returns a present float Value.
func FloatValue(f float64) Value {
	return Value{Kind: KindFloat, Present: true, Float: f}
}

// String renders the value for display and filter matching. The empty
// marker renders as "".
func (v Value) String() string {
	if !v.Present {
		return ""
	}
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	default:
		return v.Text
	}
}

// Selector maps a field name to one or more element paths in the filing
// document. Paths are rooted at the Return element; a path whose first
// segment is neither ReturnHeader nor ReturnData is resolved under
// ReturnData. Multi-path selectors join the non-empty parts with Sep.
type Selector struct {
	Name  string   `json:"name"`
	Kind  Kind     `json:"kind"`
	Paths []string `json:"paths"`
	Sep   string   `json:"sep,omitempty"`
}

// Validate returns an error if the selector contains invalid fields.
func (s *Selector) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "selector name required")
	}
	switch s.Kind {
	case KindString, KindInt, KindFloat:
	default:
		return Errorf(EINVALID, "selector %q has unknown kind %q", s.Name, string(s.Kind))
	}
	if len(s.Paths) == 0 {
		return Errorf(EINVALID, "selector %q requires at least one path", s.Name)
	}
	for _, p := range s.Paths {
		if p == "" {
			return Errorf(EINVALID, "selector %q has an empty path", s.Name)
		}
	}
	return nil
}

// Registry is an ordered, name-unique selector list. It is validated once
// at construction; extraction assumes a valid registry.
type Registry struct {
	selectors []Selector
	names     map[string]int
}

// NewRegistry validates the selectors and returns a registry preserving
// their order.
func NewRegistry(selectors ...Selector) (*Registry, error) {
	if len(selectors) == 0 {
		return nil, Errorf(EINVALID, "registry requires at least one selector")
	}
	names := make(map[string]int, len(selectors))
	for i := range selectors {
		if err := selectors[i].Validate(); err != nil {
			return nil, err
		}
		if _, ok := names[selectors[i].Name]; ok {
			return nil, Errorf(EINVALID, "duplicate selector name %q", selectors[i].Name)
		}
		names[selectors[i].Name] = i
	}
	return &Registry{selectors: selectors, names: names}, nil
}

// Selectors returns the selectors in registry order.
func (r *Registry) Selectors() []Selector {
	return r.selectors
}

// Selector returns the named selector.
func (r *Registry) Selector(name string) (Selector, bool) {
	i, ok := r.names[name]
	if !ok {
		return Selector{}, false
	}
	return r.selectors[i], true
}

// DefaultRegistry returns the standard Form 990 field set.
func DefaultRegistry() *Registry {
	reg, err := NewRegistry(
		Selector{Name: "activity_or_mission_description", Kind: KindString, Paths: []string{"/IRS990/ActivityOrMissionDesc"}},
		Selector{Name: "business_name", Kind: KindString, Sep: " ", Paths: []string{
			"/ReturnHeader/Filer/BusinessName/BusinessNameLine1Txt",
			"/ReturnHeader/Filer/BusinessName/BusinessNameLine2Txt",
		}},
		Selector{Name: "ein", Kind: KindString, Paths: []string{"/ReturnHeader/Filer/EIN"}},
		Selector{Name: "employee_count", Kind: KindInt, Paths: []string{"/IRS990/TotalEmployeeCnt"}},
		Selector{Name: "formation_year", Kind: KindInt, Paths: []string{"/IRS990/FormationYr"}},
		Selector{Name: "gross_receipts", Kind: KindInt, Paths: []string{"/IRS990/GrossReceiptsAmt"}},
		Selector{Name: "principal_officer_name", Kind: KindString, Paths: []string{"/IRS990/PrincipalOfficerNm"}},
		Selector{Name: "tax_year", Kind: KindInt, Paths: []string{"/ReturnHeader/TaxYr"}},
		Selector{Name: "us_address", Kind: KindString, Sep: "\n", Paths: []string{
			"/IRS990/USAddress/AddressLine1Txt",
			"/IRS990/USAddress/AddressLine2Txt",
		}},
		Selector{Name: "us_city_name", Kind: KindString, Paths: []string{"/IRS990/USAddress/CityNm"}},
		Selector{Name: "us_zip_code", Kind: KindString, Paths: []string{"/IRS990/USAddress/ZIPCd"}},
		Selector{Name: "website_address", Kind: KindString, Paths: []string{"/IRS990/WebsiteAddressTxt"}},
	)
	if err != nil {
		panic(err)
	}
	return reg
}

// Filing is one extracted filing document. Fields holds exactly one entry
// per registry selector.
type Filing struct {
	ObjectID string           `json:"objectId"`
	Fields   map[string]Value `json:"fields"`
}

// Field returns the value for name. Names absent from the filing return
// the empty marker.
func (f *Filing) Field(name string) Value {
	return f.Fields[name]
}

// FilingFilter reports whether an extracted filing should be kept.
type FilingFilter func(*Filing) bool

// MatchFilingField returns a filter keeping filings whose named field's
// rendered value matches pattern (case-insensitive, unanchored). The empty
// marker never matches. The name must exist in reg; returns EINVALID
// otherwise, or for an invalid pattern.
func MatchFilingField(reg *Registry, name, pattern string) (FilingFilter, error) {
	if _, ok := reg.Selector(name); !ok {
		return nil, Errorf(EINVALID, "unknown filing field %q", name)
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid pattern for field %q: %s", name, err)
	}
	return func(f *Filing) bool {
		v := f.Field(name).String()
		return v != "" && re.MatchString(v)
	}, nil
}
