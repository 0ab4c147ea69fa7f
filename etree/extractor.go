// Package etree implements filing extraction using the beevik/etree XML
// library.
package etree

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/irs990"
)

var _ irs990.Extractor = (*Extractor)(nil)

// Extractor resolves selector registries against Form 990 e-file XML.
// The e-file schema nests everything under a Return element holding a
// ReturnHeader and a ReturnData branch; selector paths without an explicit
// branch resolve under ReturnData.
type Extractor struct{}

// New returns an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract parses the filing and resolves every registry selector. Missing
// elements and unparseable numbers yield empty-marker values.
func (e *Extractor) Extract(data []byte, reg *irs990.Registry) (*irs990.Filing, error) {
	// Some archived payloads carry stray bytes ahead of the XML.
	i := bytes.IndexByte(data, '<')
	if i < 0 {
		return nil, irs990.Errorf(irs990.EMALFORMED, "filing contains no XML")
	}
	data = data[i:]

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, irs990.Errorf(irs990.EMALFORMED, "parse filing: %s", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, irs990.Errorf(irs990.EMALFORMED, "filing has no document element")
	}

	filing := &irs990.Filing{Fields: make(map[string]irs990.Value, len(reg.Selectors()))}
	for _, sel := range reg.Selectors() {
		filing.Fields[sel.Name] = resolve(root, sel)
	}
	return filing, nil
}

func resolve(root *etree.Element, sel irs990.Selector) irs990.Value {
	parts := make([]string, 0, len(sel.Paths))
	for _, path := range sel.Paths {
		el := findPath(root, normalizePath(path))
		if el == nil {
			continue
		}
		if text := strings.TrimSpace(el.Text()); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return irs990.Value{Kind: sel.Kind}
	}

	text := strings.Join(parts, sel.Sep)
	switch sel.Kind {
	case irs990.KindInt:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return irs990.Value{Kind: sel.Kind}
		}
		return irs990.IntValue(n)
	case irs990.KindFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return irs990.Value{Kind: sel.Kind}
		}
		return irs990.FloatValue(f)
	default:
		return irs990.StringValue(text)
	}
}

// findPath walks the path segments from root, keeping all matches per
// level so the first matching leaf in document order wins even when an
// earlier branch lacks the tail segments.
func findPath(root *etree.Element, path string) *etree.Element {
	candidates := []*etree.Element{root}
	for _, seg := range strings.Split(path, "/") {
		var next []*etree.Element
		for _, el := range candidates {
			next = append(next, el.SelectElements(seg)...)
		}
		if len(next) == 0 {
			return nil
		}
		candidates = next
	}
	return candidates[0]
}

// normalizePath strips the leading slash and roots bare paths under
// ReturnData.
func normalizePath(path string) string {
	path = strings.TrimPrefix(path, "/")
	first := path
	if i := strings.IndexByte(path, '/'); i >= 0 {
		first = path[:i]
	}
	if first != "ReturnHeader" && first != "ReturnData" {
		path = "ReturnData/" + path
	}
	return path
}
