package irs990

import (
	"context"
	"regexp"
)

// BMFRecord is one row of a region's Exempt Organizations Business Master
// File CSV. All values are kept as published, including the amount columns,
// which the IRS formats inconsistently across regions.
type BMFRecord struct {
	EIN              string `json:"ein"`
	Name             string `json:"name"`
	ICO              string `json:"ico"`
	Street           string `json:"street"`
	City             string `json:"city"`
	State            string `json:"state"`
	ZIP              string `json:"zip"`
	Group            string `json:"group"`
	Subsection       string `json:"subsection"`
	Affiliation      string `json:"affiliation"`
	Classification   string `json:"classification"`
	Ruling           string `json:"ruling"`
	Deductibility    string `json:"deductibility"`
	Foundation       string `json:"foundation"`
	Activity         string `json:"activity"`
	Organization     string `json:"organization"`
	Status           string `json:"status"`
	TaxPeriod        string `json:"taxPeriod"`
	AssetCode        string `json:"assetCode"`
	IncomeCode       string `json:"incomeCode"`
	FilingReqCode    string `json:"filingReqCode"`
	PFFilingReqCode  string `json:"pfFilingReqCode"`
	AccountingPeriod string `json:"accountingPeriod"`
	AssetAmount      string `json:"assetAmount"`
	IncomeAmount     string `json:"incomeAmount"`
	RevenueAmount    string `json:"revenueAmount"`
	NTEECode         string `json:"nteeCode"`
	SortName         string `json:"sortName"`
}

// BMFIndex holds the parsed rows of one region's file.
type BMFIndex struct {
	Region  Region      `json:"region"`
	Records []BMFRecord `json:"records"`

	// Skipped counts rows dropped during parsing (short rows, rows
	// missing an EIN).
	Skipped int `json:"skipped"`
}

// BMFIndexService loads BMF index partitions.
type BMFIndexService interface {
	// LoadBMFIndex retrieves and parses the file for a region.
	// Returns ENOTFOUND, before any fetch, if the region is unknown.
	LoadBMFIndex(ctx context.Context, region Region) (*BMFIndex, error)
}

// BMFFilter reports whether a BMF record should be kept.
type BMFFilter func(*BMFRecord) bool

var bmfFields = map[string]func(*BMFRecord) string{
	"ein":                func(r *BMFRecord) string { return r.EIN },
	"name":               func(r *BMFRecord) string { return r.Name },
	"ico":                func(r *BMFRecord) string { return r.ICO },
	"street":             func(r *BMFRecord) string { return r.Street },
	"city":               func(r *BMFRecord) string { return r.City },
	"state":              func(r *BMFRecord) string { return r.State },
	"zip":                func(r *BMFRecord) string { return r.ZIP },
	"group":              func(r *BMFRecord) string { return r.Group },
	"subsection":         func(r *BMFRecord) string { return r.Subsection },
	"affiliation":        func(r *BMFRecord) string { return r.Affiliation },
	"classification":     func(r *BMFRecord) string { return r.Classification },
	"ruling":             func(r *BMFRecord) string { return r.Ruling },
	"deductibility":      func(r *BMFRecord) string { return r.Deductibility },
	"foundation":         func(r *BMFRecord) string { return r.Foundation },
	"activity":           func(r *BMFRecord) string { return r.Activity },
	"organization":       func(r *BMFRecord) string { return r.Organization },
	"status":             func(r *BMFRecord) string { return r.Status },
	"tax_period":         func(r *BMFRecord) string { return r.TaxPeriod },
	"asset_code":         func(r *BMFRecord) string { return r.AssetCode },
	"income_code":        func(r *BMFRecord) string { return r.IncomeCode },
	"filing_req_code":    func(r *BMFRecord) string { return r.FilingReqCode },
	"pf_filing_req_code": func(r *BMFRecord) string { return r.PFFilingReqCode },
	"accounting_period":  func(r *BMFRecord) string { return r.AccountingPeriod },
	"asset_amount":       func(r *BMFRecord) string { return r.AssetAmount },
	"income_amount":      func(r *BMFRecord) string { return r.IncomeAmount },
	"revenue_amount":     func(r *BMFRecord) string { return r.RevenueAmount },
	"ntee_code":          func(r *BMFRecord) string { return r.NTEECode },
	"sort_name":          func(r *BMFRecord) string { return r.SortName },
}

// MatchBMFField returns a filter keeping records whose named field matches
// pattern (case-insensitive, unanchored). A record whose field is empty
// never matches. Returns EINVALID for an unknown field name or an invalid
// pattern.
func MatchBMFField(name, pattern string) (BMFFilter, error) {
	get, ok := bmfFields[name]
	if !ok {
		return nil, Errorf(EINVALID, "unknown BMF field %q", name)
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid pattern for field %q: %s", name, err)
	}
	return func(r *BMFRecord) bool {
		v := get(r)
		return v != "" && re.MatchString(v)
	}, nil
}
