package irs990

// Extractor reduces a filing XML document to a flat record using a
// selector registry.
type Extractor interface {
	// Extract parses the document and resolves every registry selector.
	// Absent elements, empty text, and failed numeric parses yield
	// empty-marker values, never errors. Returns EMALFORMED when the
	// document itself cannot be parsed.
	// The caller assigns the filing's object ID.
	Extract(data []byte, reg *Registry) (*Filing, error)
}
