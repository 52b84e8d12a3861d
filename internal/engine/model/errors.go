package model

import "github.com/pkg/errors"

// Sentinel errors. Callers match them with errors.Is; draw and construction
// paths wrap them with context about the failing mesh or part.
var (
	// ErrInvalidConfiguration reports a malformed or oversized vertex layout
	// descriptor. Detected before any GPU resource is created.
	ErrInvalidConfiguration = errors.New("invalid vertex layout configuration")

	// ErrMissingSkinningData reports a skinning-capable effect bound to a
	// mesh that carries no bone influences.
	ErrMissingSkinningData = errors.New("bone influences required for skinning")

	// ErrInvalidArgument reports a missing or empty bone transform table
	// where one is required.
	ErrInvalidArgument = errors.New("invalid argument")
)
