package repository

import "errors"

// ErrNotFound returned by repositories when the requested entity is absent
var ErrNotFound = errors.New("not found")
