package pipeline

import "errors"

// ErrSourceNotFound is returned by Load when the source path does not resolve.
var ErrSourceNotFound = errors.New("source file not found")

// ErrParse is returned by Load when a required column is absent or a value
// cannot be parsed. The wrapping error carries the column and line detail.
var ErrParse = errors.New("parse error")
