package settings

import "errors"

var (
	// ErrUnknownDomain is returned for a domain without schema.
	ErrUnknownDomain = errors.New("unknown settings domain")
	// ErrUnknownGroup is returned for an unknown settings group.
	ErrUnknownGroup = errors.New("unknown settings group")
	// ErrUnknownKey is returned when a key is not declared by the domain schema.
	ErrUnknownKey = errors.New("unknown settings key")
	// ErrUnknownKind is returned when decoding with an unknown kind.
	ErrUnknownKind = errors.New("unknown value kind")
	// ErrKindMismatch is returned when an encoded or plain value does not match the expected kind.
	ErrKindMismatch = errors.New("value does not match kind")
	// ErrInvalidValue is returned when a value violates the rule of its field.
	ErrInvalidValue = errors.New("invalid settings value")
	// ErrUnknownStrategy is returned for an unknown save strategy name.
	ErrUnknownStrategy = errors.New("unknown save strategy")
	// ErrStoreUnavailable wraps a failing store call on the load path.
	ErrStoreUnavailable = errors.New("settings store unavailable")
	// ErrSaveFailed wraps a failing store call on the save path.
	ErrSaveFailed = errors.New("saving settings failed")
)
