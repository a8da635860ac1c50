package model

import "errors"

var (
	ErrModelUnavailable = errors.New("classifier model unavailable")
	ErrBadFeatureVector = errors.New("feature vector does not match model contract")
)
