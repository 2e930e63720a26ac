package apperr

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrFilenameCollision = errors.New("filename already exists")
)
