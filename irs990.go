// Package irs990 provides a CLI-based retrieval tool for U.S. nonprofit
// tax filings (IRS Form 990). It loads the yearly e-file indices and the
// per-state Exempt Organizations Business Master File, joins them on EIN,
// fetches the matching filing XML documents through a local disk cache,
// and reduces each document to a flat record via a selector registry.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, etree/, diskcache/).
package irs990
