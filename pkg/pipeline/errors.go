package pipeline

import "errors"

var (
	// ErrMissingInput is fatal: the timings directory, manifest or output
	// directory is unusable.
	ErrMissingInput = errors.New("missing input")

	// ErrUnmatchedManifestEntry marks a timing file no manifest entry narrates.
	// The file is skipped.
	ErrUnmatchedManifestEntry = errors.New("no manifest entry for timing file")

	// ErrUnknownSlideType marks a manifest entry whose slide type has no
	// choreographer. The file is skipped.
	ErrUnknownSlideType = errors.New("unknown slide type")
)
