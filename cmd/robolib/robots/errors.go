package robots

import (
	"errors"
	"fmt"
)

// Load-time errors. Any of them aborts the build; no partial registry is produced.
var (
	ErrSchema         = errors.New("schema error")
	ErrKeyMismatch    = errors.New("record key does not match name")
	ErrNoAsset        = errors.New("no asset urls")
	ErrEmptyChain     = errors.New("empty kinematic chain")
	ErrInvalidBounds  = errors.New("invalid bounds")
	ErrInvalidAxis    = errors.New("invalid rotation axis")
	ErrDuplicateRobot = errors.New("robot defined more than once")
	ErrDuplicateJoint = errors.New("duplicate joint name in chain")
)

// Query-time errors. The registry is intact; the caller picks a fallback.
var (
	ErrNotFound           = errors.New("robot not found")
	ErrNoAssetForPlatform = errors.New("no asset for platform")
	ErrNoChain            = errors.New("robot has no kinematic chain")
	ErrChainIndex         = errors.New("chain index out of range")
	ErrUnknownPlatform    = errors.New("unknown platform")
	ErrNotLoaded          = errors.New("registry not loaded")
)

// ValidationError reports a load-time failure for a single robot.
type ValidationError struct {
	Robot string
	Path  string
	Err   error
}

func (e *ValidationError) Error() string {
	path := e.Path
	if path == "" {
		path = "<record>"
	}
	return fmt.Sprintf("phase=validate robot=%s path=%s: %v", e.Robot, path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsQueryError reports whether err is a recoverable lookup failure rather than
// a structural problem with the loaded data.
func IsQueryError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrNoAssetForPlatform) ||
		errors.Is(err, ErrNoChain) ||
		errors.Is(err, ErrChainIndex)
}
