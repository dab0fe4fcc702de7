package errors

import (
	"fmt"
)

var (
	ErrNotFound          = fmt.Errorf("not found")
	ErrInvalidInput      = fmt.Errorf("invalid input")
	ErrDuplicateScope    = fmt.Errorf("duplicate requirement scope")
	ErrAlreadyRevoked    = fmt.Errorf("certification already revoked")
	ErrNoActiveRevision  = fmt.Errorf("skill has no active revision")
	ErrInvalidTransition = fmt.Errorf("invalid revision transition")
)
