package mock

import "github.com/fwojciec/irs990"

var _ irs990.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of irs990.Extractor.
type Extractor struct {
	ExtractFn func(data []byte, reg *irs990.Registry) (*irs990.Filing, error)
}

func (e *Extractor) Extract(data []byte, reg *irs990.Registry) (*irs990.Filing, error) {
	return e.ExtractFn(data, reg)
}
