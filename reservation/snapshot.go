package reservation

// Snapshot is a read-only copy of the grid state, taken by Grid.Snapshot.
type Snapshot struct {
	Theatres  [][]SeatState
	Remaining int
}

// TotalSeats returns the number of seats across all theatres.
func (s Snapshot) TotalSeats() int {
	total := 0
	for _, row := range s.Theatres {
		total += len(row)
	}

	return total
}

// ReservedSeats counts the reserved seats across all theatres.
func (s Snapshot) ReservedSeats() int {
	reserved := 0
	for _, row := range s.Theatres {
		for _, seat := range row {
			if seat == Reserved {
				reserved++
			}
		}
	}

	return reserved
}

// FreeSeats counts the free seats across all theatres.
func (s Snapshot) FreeSeats() int {
	return s.TotalSeats() - s.ReservedSeats()
}

// IsExhausted reports whether every seat in the snapshot is reserved.
func (s Snapshot) IsExhausted() bool {
	return s.FreeSeats() == 0
}
