package core

import (
	"errors"
)

var (
	// ErrMalformedHeader is returned when an STL source ends before the
	// 80-byte header and the 4-byte triangle count are complete.
	ErrMalformedHeader = errors.New("malformed STL header")
	// ErrTruncatedInput is returned when an STL source holds fewer triangle
	// records than its header declares.
	ErrTruncatedInput = errors.New("truncated STL input")
	// ErrInvalidParameter is returned for non-positive or non-finite optical
	// and geometric parameters.
	ErrInvalidParameter = errors.New("invalid parameter")

	ErrUnknownAssetType     = errors.New("unknown asset type")
	ErrEngineNotInitialized = errors.New("engine not initialized")
)
