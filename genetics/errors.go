package genetics

import "errors"

var (
	// ErrDuplicateID is returned when a gene id is registered or added twice.
	ErrDuplicateID = errors.New("duplicate gene id")
	// ErrNotFound is returned by direct accessors for an absent gene id.
	ErrNotFound = errors.New("gene not found")
	// ErrTypeMismatch is returned when a non-numeric value is coerced to float.
	ErrTypeMismatch = errors.New("gene value type mismatch")
	// ErrInvalidArgument is returned for malformed inputs such as crossing
	// chromosomes of different categories.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrRegistrySealed is returned when registering into a sealed registry.
	ErrRegistrySealed = errors.New("registry is sealed")
)
