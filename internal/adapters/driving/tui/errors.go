package tui

import "errors"

// Errors returned by Ports.Validate and NewApp.
var (
	ErrInvalidPorts          = errors.New("tui: invalid ports configuration")
	ErrMissingCompareService = errors.New("tui: compare service is required")
	ErrMissingLocateService  = errors.New("tui: locate service is required")
)
