package irs990

import "fmt"

// Public data endpoints.
const (
	// EfileBaseURL hosts the yearly e-file indices and the per-filing
	// XML documents.
	EfileBaseURL = "https://s3.amazonaws.com/irs-form-990"

	// BMFBaseURL hosts the per-region exempt organization files.
	BMFBaseURL = "https://www.irs.gov/pub/irs-soi"

	// BMFListingURL is the page listing the published region files.
	BMFListingURL = "https://www.irs.gov/charities-non-profits/exempt-organizations-business-master-file-extract-eo-bmf"
)

// AnnualIndexURL returns the CSV location for a year's e-file index.
func AnnualIndexURL(base string, year Year) string {
	return fmt.Sprintf("%s/index_%d.csv", base, int(year))
}

// BMFIndexURL returns the CSV location for a region's BMF file.
func BMFIndexURL(base string, region Region) string {
	return fmt.Sprintf("%s/eo_%s.csv", base, string(region))
}

// FilingURL returns the XML location for a filing object ID.
func FilingURL(base string, objectID string) string {
	return fmt.Sprintf("%s/%s_public.xml", base, objectID)
}
