package inidoc

import "errors"

var (
	// ErrIO marks failures to read or write the backing file. Parsing itself
	// never fails.
	ErrIO = errors.New("inidoc: i/o failure")

	// ErrNoDocument is returned when storing without a document handle.
	ErrNoDocument = errors.New("inidoc: no document handle")
)
