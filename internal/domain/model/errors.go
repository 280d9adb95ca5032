package model

import "errors"

// Sentinel kinds for domain lookups.
var (
	ErrClinicNotFound = errors.New("clinic not found")
)
