// Package export writes movement reports.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/erazemk/inventario/internal/model"
)

// DefaultWindowDays is the report window used when none is requested.
const DefaultWindowDays = 15

// TimestampLayout is the date/time format of the report.
const TimestampLayout = "02/01/2006 15:04"

var header = []string{"Date/Time", "Type", "Equipment", "Description", "Performed by"}

// Options controls how a report is rendered.
type Options struct {
	// Location is used to format timestamps. Nil means time.Local.
	Location *time.Location
}

// Window returns the movements recorded within the last days days before
// now, preserving order. Non-positive days selects DefaultWindowDays.
func Window(movements []model.Movement, now time.Time, days int) []model.Movement {
	if days <= 0 {
		days = DefaultWindowDays
	}
	cutoff := now.AddDate(0, 0, -days)

	out := []model.Movement{}
	for _, m := range movements {
		if !m.CreatedAt.Before(cutoff) {
			out = append(out, m)
		}
	}
	return out
}

// WriteCSV writes movements as CSV with a header row.
func WriteCSV(w io.Writer, movements []model.Movement, opts Options) error {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, m := range movements {
		row := []string{
			m.CreatedAt.In(loc).Format(TimestampLayout),
			m.Type.Label(),
			m.EquipmentName,
			m.Description,
			m.PerformedBy,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing movement %s: %w", m.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing report: %w", err)
	}
	return nil
}

// FileName returns the suggested report file name for now.
func FileName(now time.Time) string {
	return fmt.Sprintf("movements_%s.csv", now.Format("2006-01-02"))
}
