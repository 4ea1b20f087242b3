package simulation

import (
	"bufio"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/concurrent-seat-reservation-go/reservation"
)

// Report is the final result of a run.
type Report struct {
	RunID    string
	Seed     int64
	Snapshot reservation.Snapshot
	Stats    StatsSnapshot
}

// jsonReport is the wire shape of WriteJSON.
type jsonReport struct {
	RunID     string                    `json:"run_id"`
	Seed      int64                     `json:"seed"`
	Theatres  [][]reservation.SeatState `json:"theatres"`
	Reserved  int                       `json:"reserved"`
	Remaining int                       `json:"remaining"`
	Waves     int64                     `json:"waves"`
	Stats     StatsSnapshot             `json:"stats"`
}

// WriteText prints one line per theatre, numbered from 1, with a 0 or 1 per seat. Every value is
// followed by a space, including the last one.
func (r Report) WriteText(w io.Writer) error {
	buf := bufio.NewWriter(w)

	for i, theatre := range r.Snapshot.Theatres {
		if _, err := fmt.Fprintf(buf, "Theatre %d: ", i+1); err != nil {
			return err
		}

		for _, seat := range theatre {
			if _, err := fmt.Fprintf(buf, "%d ", seat); err != nil {
				return err
			}
		}

		if err := buf.WriteByte('\n'); err != nil {
			return err
		}
	}

	return buf.Flush()
}

// WriteJSON writes the report as a single JSON document followed by a newline.
func (r Report) WriteJSON(w io.Writer) error {
	theatres := r.Snapshot.Theatres
	if theatres == nil {
		theatres = [][]reservation.SeatState{}
	}

	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(jsonReport{
		RunID:     r.RunID,
		Seed:      r.Seed,
		Theatres:  theatres,
		Reserved:  r.Snapshot.ReservedSeats(),
		Remaining: r.Snapshot.Remaining,
		Waves:     r.Stats.Waves,
		Stats:     r.Stats,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if _, err = w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
