package irs990

import "context"

// Fetcher retrieves documents over HTTP.
type Fetcher interface {
	// Fetch downloads the document at url and returns its raw bytes.
	// Returns ENOTFOUND for a 404 response and ENETWORK for any other
	// transport or status failure.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
