package domain

import "context"

// LocatorPort is the external port of the quote locator
type LocatorPort interface {
	// Locate finds req.Quote in req.Text and aligns the selected occurrence
	// onto tokens. With Occurrence 0 a quote that never occurs yields an empty
	// Result; any ordinal beyond the occurrences found is ErrorCodeOccurrenceOutOfRange
	Locate(ctx context.Context, req Request) (Result, error)

	// LocateBatch runs Locate for every request, keeping input order.
	// The first failure cancels the rest
	LocateBatch(ctx context.Context, reqs []Request) ([]Result, error)
}
