package shotpaths

import "errors"

var (
	// ErrInvalidScriptName indicates a script name without an ep/sq/sh prefix.
	ErrInvalidScriptName = errors.New("script name does not match ep##_sq##_sh###")

	// ErrNoVersion indicates a versioned output was requested from an unversioned script.
	ErrNoVersion = errors.New("script name has no _v## version")

	// ErrUnknownFormat indicates a write format other than exr or mov.
	ErrUnknownFormat = errors.New("unknown write format")

	// ErrNoScripts indicates a shot has no .nk scripts yet.
	ErrNoScripts = errors.New("no scripts found")

	// ErrNoMovies indicates a shot has no versioned .mov files yet.
	ErrNoMovies = errors.New("no versioned movies found")

	// ErrNoCompRoot indicates comp paths were requested without a comp root.
	ErrNoCompRoot = errors.New("comp root not configured")

	// ErrDestinationExists indicates the script to create already exists.
	ErrDestinationExists = errors.New("destination file already exists")
)
