package models

import "errors"

// Custom errors
var (
	ErrDirectoryUnavailable = errors.New("team directory unavailable")
	ErrInsufficientData     = errors.New("no completed games available for season")
	ErrEstimateUnavailable  = errors.New("probability estimate unavailable")
)
