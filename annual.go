package irs990

import (
	"context"
	"regexp"
)

// FirstAnnualIndexYear is the earliest year for which the IRS published an
// annual e-file index.
const FirstAnnualIndexYear = 2011

// Year identifies an annual index partition.
type Year int

// Validate returns ENOTFOUND if no index is published for the year.
func (y Year) Validate() error {
	if y < FirstAnnualIndexYear {
		return Errorf(ENOTFOUND, "no annual index published for year %d", int(y))
	}
	return nil
}

// AnnualRecord is one row of the yearly e-file index CSV. All values are
// kept as published.
type AnnualRecord struct {
	ReturnID     string `json:"returnId"`
	FilingType   string `json:"filingType"`
	EIN          string `json:"ein"`
	TaxPeriod    string `json:"taxPeriod"`
	SubmittedOn  string `json:"submittedOn"`
	TaxpayerName string `json:"taxpayerName"`
	ReturnType   string `json:"returnType"`
	DLN          string `json:"dln"`
	ObjectID     string `json:"objectId"`
}

// AnnualIndex holds the parsed rows of one year's index.
type AnnualIndex struct {
	Year    Year           `json:"year"`
	Records []AnnualRecord `json:"records"`

	// Skipped counts rows dropped during parsing (short rows, rows
	// missing an EIN or object ID).
	Skipped int `json:"skipped"`
}

// AnnualIndexService loads annual index partitions.
type AnnualIndexService interface {
	// LoadAnnualIndex retrieves and parses the index for a year.
	// Returns ENOTFOUND, before any fetch, if no index exists for the year.
	LoadAnnualIndex(ctx context.Context, year Year) (*AnnualIndex, error)
}

// AnnualFilter reports whether an annual record should be kept.
type AnnualFilter func(*AnnualRecord) bool

var annualFields = map[string]func(*AnnualRecord) string{
	"return_id":     func(r *AnnualRecord) string { return r.ReturnID },
	"filing_type":   func(r *AnnualRecord) string { return r.FilingType },
	"ein":           func(r *AnnualRecord) string { return r.EIN },
	"tax_period":    func(r *AnnualRecord) string { return r.TaxPeriod },
	"submitted_on":  func(r *AnnualRecord) string { return r.SubmittedOn },
	"taxpayer_name": func(r *AnnualRecord) string { return r.TaxpayerName },
	"return_type":   func(r *AnnualRecord) string { return r.ReturnType },
	"dln":           func(r *AnnualRecord) string { return r.DLN },
	"object_id":     func(r *AnnualRecord) string { return r.ObjectID },
}

// MatchAnnualField returns a filter keeping records whose named field
// matches pattern (case-insensitive, unanchored). A record whose field is
// empty never matches. Returns EINVALID for an unknown field name or an
// invalid pattern.
func MatchAnnualField(name, pattern string) (AnnualFilter, error) {
	get, ok := annualFields[name]
	if !ok {
		return nil, Errorf(EINVALID, "unknown annual index field %q", name)
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid pattern for field %q: %s", name, err)
	}
	return func(r *AnnualRecord) bool {
		v := get(r)
		return v != "" && re.MatchString(v)
	}, nil
}
