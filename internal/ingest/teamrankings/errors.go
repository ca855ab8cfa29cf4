package teamrankings

import (
	"errors"
	"fmt"

	"github.com/fortuna/trendboard/internal/stats"
)

// ErrNoScheduleTable is returned when the schedule page has no table.
var ErrNoScheduleTable = errors.New("no schedule table found")

// NetworkError wraps a transport failure (DNS, connect, timeout, cancellation).
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPStatusError is returned for any response with status >= 400.
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s for url: %s", e.Status, e.URL)
}

// Error kinds used as metric labels.
const (
	KindNetwork    = "network"
	KindHTTPStatus = "http_status"
	KindNoTable    = "no_table"
	KindSchema     = "schema"
	KindOther      = "other"
)

// Kind classifies a scrape error.
func Kind(err error) string {
	var netErr *NetworkError
	var statusErr *HTTPStatusError
	switch {
	case errors.As(err, &statusErr):
		return KindHTTPStatus
	case errors.As(err, &netErr):
		return KindNetwork
	case errors.Is(err, stats.ErrNoTableFound), errors.Is(err, ErrNoScheduleTable):
		return KindNoTable
	case errors.Is(err, stats.ErrSchemaMismatch):
		return KindSchema
	default:
		return KindOther
	}
}
