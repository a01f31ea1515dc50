package models

import "errors"

var (
	ErrEmptyInput       = errors.New("input text is empty")
	ErrInvalidTopN      = errors.New("top_n must be a positive integer")
	ErrUnsupportedModel = errors.New("classifier does not expose a linear decision function")
)
