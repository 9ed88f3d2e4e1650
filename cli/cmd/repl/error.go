package repl

import "github.com/ardnew/cottle/lang"

// Sentinel errors.
var (
	ErrOutOfBounds  = lang.NewError("index out of range")
	ErrEditDeclined = lang.NewError("decline edit")
	ErrNoScope      = lang.NewError("no scope factory")
)
