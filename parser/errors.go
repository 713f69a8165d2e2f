package parser

import "errors"

// Fatal error conditions of the import pipeline. Anything else the
// extractors run into (missing elements, unparsable values) degrades to an
// empty field instead of an error.
var (
	ErrUnsupportedSource = errors.New("url does not belong to the supported source")
	ErrLoadTimeout       = errors.New("page load timeout")
	ErrLoadFailed        = errors.New("page load failed")
)
