package ports

import (
	"context"
	"errors"
)

// ErrPageFetch marks transient portal failures (network error, timeout,
// non-2xx). Ingestion treats it as end-of-pagination for the current run.
var ErrPageFetch = errors.New("portal page fetch failed")

// PortalFetcher retrieves one page of the external portal's order listing.
type PortalFetcher interface {
	FetchPage(ctx context.Context, page int) ([]byte, error)
}
