package cmd

import "github.com/ardnew/cottle/lang"

// Predefined errors (sentinel values).
var (
	ErrOpenSource    = lang.NewError("failed to open source")
	ErrLoadVars      = lang.NewError("failed to load variables")
	ErrVarsNotMap    = lang.NewError("variables file must hold a mapping")
	ErrYAMLMarshal   = lang.NewError("marshal YAML")
	ErrCheckFailed   = lang.NewError("templates have syntax errors")
	ErrStrictRender  = lang.NewError("function calls failed during render")
	ErrWriteOutput   = lang.NewError("failed to write output")
	ErrInvalidOption = lang.NewError("invalid option")
	ErrWriteConfig   = lang.NewError("failed to write configuration file")
	ErrFileExists    = lang.NewError("file exists")
	ErrNoContext     = lang.NewError("command context unavailable")
)
