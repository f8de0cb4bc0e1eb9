package drift

import (
	"fmt"
	"strings"
)

// StoreLookupError records that one application's releases could not be fetched.
type StoreLookupError struct {
	Application string
	Err         error
}

func (e *StoreLookupError) Error() string {
	return fmt.Sprintf("fetch releases for %s: %v", e.Application, e.Err)
}

func (e *StoreLookupError) Unwrap() error {
	return e.Err
}

// AggregationTimeoutError is returned when a run is cut short by its deadline
// or by cancellation. Partial holds the outcomes of the completed applications.
type AggregationTimeoutError struct {
	Completed []string
	Pending   []string
	Partial   *AggregateReport
	Err       error
}

func (e *AggregationTimeoutError) Error() string {
	return fmt.Sprintf("drift detection interrupted with %d of %d applications pending (%s): %v",
		len(e.Pending), len(e.Pending)+len(e.Completed), strings.Join(e.Pending, ", "), e.Err)
}

func (e *AggregationTimeoutError) Unwrap() error {
	return e.Err
}
