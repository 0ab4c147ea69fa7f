package irs990

import (
	"context"
	"sort"
)

// Region identifies a BMF index partition: a lowercase USPS state code, dc,
// pr, or xx (international and all other areas).
type Region string

var bmfRegions = map[Region]bool{
	"al": true, "ak": true, "az": true, "ar": true, "ca": true,
	"co": true, "ct": true, "de": true, "fl": true, "ga": true,
	"hi": true, "id": true, "il": true, "in": true, "ia": true,
	"ks": true, "ky": true, "la": true, "me": true, "md": true,
	"ma": true, "mi": true, "mn": true, "ms": true, "mo": true,
	"mt": true, "ne": true, "nv": true, "nh": true, "nj": true,
	"nm": true, "ny": true, "nc": true, "nd": true, "oh": true,
	"ok": true, "or": true, "pa": true, "ri": true, "sc": true,
	"sd": true, "tn": true, "tx": true, "ut": true, "vt": true,
	"va": true, "wa": true, "wv": true, "wi": true, "wy": true,
	"dc": true, "pr": true, "xx": true,
}

// Validate returns ENOTFOUND if the IRS publishes no file for the region.
func (r Region) Validate() error {
	if !bmfRegions[r] {
		return Errorf(ENOTFOUND, "no exempt organizations file published for region %q", string(r))
	}
	return nil
}

// Regions returns every known region code, sorted.
func Regions() []Region {
	out := make([]Region, 0, len(bmfRegions))
	for r := range bmfRegions {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RegionLister discovers the regions currently published by the IRS.
type RegionLister interface {
	// ListRegions returns the distinct region codes found on the BMF
	// listing page, sorted.
	ListRegions(ctx context.Context) ([]Region, error)
}
