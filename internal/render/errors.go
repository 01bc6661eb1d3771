package render

import "errors"

// ErrRender indicates the document could not be turned into a
// downloadable artifact, either because the text was empty or
// because the layout engine rejected it.
var ErrRender = errors.New("render failed")
