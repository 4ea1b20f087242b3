package reservation

import (
	"fmt"
)

// Request is a DTO describing which seats of one theatre should be reserved together.
//
// Seats may contain duplicates. They are processed literally: a duplicate of a free seat
// does not make the request fail, the seat is simply reserved once.
type Request struct {
	Theatre int
	Seats   []int
}

// BuildRequest is a factory method for Request.
func BuildRequest(theatre int, seats ...int) Request {
	return Request{
		Theatre: theatre,
		Seats:   seats,
	}
}

// Size returns the number of seat indices in the request, duplicates included.
func (r Request) Size() int {
	return len(r.Seats)
}

// validate checks the request against the grid dimensions.
// Returns a wrapped sentinel error describing the first violation found.
func (r Request) validate(theatres, seatsPerTheatre int) error {
	if len(r.Seats) == 0 {
		return ErrEmptyRequest
	}

	if r.Theatre < 0 || r.Theatre >= theatres {
		return fmt.Errorf("%w: theatre %d, valid range is [0, %d)", ErrTheatreOutOfRange, r.Theatre, theatres)
	}

	for _, seat := range r.Seats {
		if seat < 0 || seat >= seatsPerTheatre {
			return fmt.Errorf("%w: seat %d, valid range is [0, %d)", ErrSeatOutOfRange, seat, seatsPerTheatre)
		}
	}

	return nil
}
