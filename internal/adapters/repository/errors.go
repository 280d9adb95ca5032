package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrInvalidDataset = errors.New("invalid dataset")
	ErrLoadSeed       = errors.New("load seed file failed")
)
