package activity

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/adminconsole/admin-console/internal/db/models"
)

// DateLayout formats the Date column of exports.
const DateLayout = "2006-01-02 15:04:05"

var exportHeader = []string{"Date", "User", "Action", "Description", "IP Address"} //nolint:gochecknoglobals

// ExportCSV writes entries as CSV. Dates are rendered in loc, UTC when nil.
func ExportCSV(w io.Writer, entries []models.ActivityLog, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range entries {
		e := &entries[i]

		who := "System"
		if e.UserEmail != nil && *e.UserEmail != "" {
			who = *e.UserEmail
		}

		row := []string{
			e.CreatedAt.In(loc).Format(DateLayout),
			who,
			string(e.ActionType),
			strings.ReplaceAll(e.Description, ",", ";"),
			e.IPAddress,
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write entry %d: %w", e.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// FileName is the download name of an export for the given period.
func FileName(year, month int) string {
	return fmt.Sprintf("activity-log-%d-%d.csv", year, month)
}
