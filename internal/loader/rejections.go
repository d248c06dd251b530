package loader

import "errors"

// Reasons a sink rejects an individual record. Sinks wrap these with the
// offending detail; the load continues past them.
var (
	ErrInvalidConfiguration = errors.New("configuration is not a valid tile permutation")
	ErrStateConflict        = errors.New("state id already stored with a different configuration")
	ErrInvalidEdge          = errors.New("edge endpoints must be distinct and ordered smaller to larger")
	ErrMissingEndpoint      = errors.New("edge endpoint state not stored")
)
