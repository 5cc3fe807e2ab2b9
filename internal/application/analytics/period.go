package analytics

import (
	"fmt"
	"time"

	"github.com/jhoicas/Bodega-api/internal/domain"
)

const dateLayout = "2006-01-02"

// DayRange devuelve [inicio, fin) del día calendario date (YYYY-MM-DD) en loc, en UTC.
func DayRange(date string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: fecha %q, se espera YYYY-MM-DD", domain.ErrValidation, date)
	}
	return day.UTC(), day.AddDate(0, 0, 1).UTC(), nil
}

// Today fecha de hoy (YYYY-MM-DD) en loc.
func Today(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(dateLayout)
}
