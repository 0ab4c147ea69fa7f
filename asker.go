package irs990

import "context"

// Asker provides natural language question answering over saved filings.
type Asker interface {
	// Ask answers a natural language question about the saved filings.
	// Returns ENOTFOUND if no filings have been saved.
	Ask(ctx context.Context, question string) (string, error)
}
