package reservation

import (
	"errors"
)

var ErrInvalidDimensions = errors.New("theatre count and seats per theatre must be positive")
var ErrEmptyRequest = errors.New("reservation request contains no seats")
var ErrTheatreOutOfRange = errors.New("theatre index out of range")
var ErrSeatOutOfRange = errors.New("seat index out of range")
