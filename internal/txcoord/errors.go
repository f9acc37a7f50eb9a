package txcoord

import (
	"fmt"

	"metasecure-core/pkg/errno"
)

// PartialError reports the most serious submission outcome: the native
// transfer succeeded but the ledger append failed or was rejected. The
// value has moved and no ledger record exists. It is surfaced, journaled
// as partial, and deliberately neither rolled back nor retried.
type PartialError struct {
	NativeHash string
	Err        error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("value transferred in %s but ledger record failed: %v", e.NativeHash, e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, errno.ErrPartialSubmission) match.
func (e *PartialError) Is(target error) bool {
	if t, ok := target.(errno.Errno); ok {
		return t.Code == errno.ErrPartialSubmission.Code
	}
	return false
}
