package pdf

import "errors"

// ErrMissingTitle is returned when a document is rendered without a title
var ErrMissingTitle = errors.New("proposal title is required")
