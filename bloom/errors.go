package bloom

import "errors"

var (
	ErrInvalidParameters = errors.New("bloom: invalid parameters")
	ErrOutOfMemory       = errors.New("bloom: out of memory")
	ErrNotInitialized    = errors.New("bloom: not initialized")

	ErrIO                     = errors.New("bloom: i/o error")
	ErrTruncatedData          = errors.New("bloom: truncated data")
	ErrBadMagic               = errors.New("bloom: bad magic")
	ErrUnexpectedMetadataSize = errors.New("bloom: unexpected metadata size")
	ErrIncompatibleVersion    = errors.New("bloom: incompatible format version")
	ErrBadMetadata            = errors.New("bloom: inconsistent metadata")

	ErrIncompatible = errors.New("bloom: incompatible filters")
)
