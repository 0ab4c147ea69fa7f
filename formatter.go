package irs990

import (
	"sort"
	"strings"
)

// FormatFilings formats extracted filings for display or LLM context.
// Fields appear in registry order; empty-marker fields render blank.
// Filings are separated by blank lines.
func FormatFilings(filings []*Filing, reg *Registry) string {
	if len(filings) == 0 {
		return ""
	}

	parts := make([]string, 0, len(filings))
	for _, f := range filings {
		var b strings.Builder
		b.WriteString("## Filing: " + f.ObjectID)
		for _, sel := range reg.Selectors() {
			b.WriteString("\n" + sel.Name + ": " + f.Field(sel.Name).String())
		}
		parts = append(parts, b.String())
	}

	return strings.Join(parts, "\n\n")
}

// FormatSavedFilings formats persisted filings for display or LLM context.
// Fields appear in name order since saved filings carry no registry.
func FormatSavedFilings(saved []*SavedFiling) string {
	if len(saved) == 0 {
		return ""
	}

	parts := make([]string, 0, len(saved))
	for _, f := range saved {
		names := make([]string, 0, len(f.Fields))
		for name := range f.Fields {
			names = append(names, name)
		}
		sort.Strings(names)

		var b strings.Builder
		b.WriteString("## Filing: " + f.ObjectID)
		for _, name := range names {
			b.WriteString("\n" + name + ": " + f.Fields[name].String())
		}
		parts = append(parts, b.String())
	}

	return strings.Join(parts, "\n\n")
}
