package quota

import (
	"fmt"
	"time"
)

// MonthKey returns the counter key for a user in the calendar month of t,
// in the form "quota:<user>:<YYYY-MM>".
//
// Months are evaluated in UTC so the reset boundary is fixed and does not
// move with the server timezone or DST transitions.
func MonthKey(userID string, t time.Time) string {
	return fmt.Sprintf("quota:%s:%s", userID, t.UTC().Format("2006-01"))
}

// UntilNextMonth returns the duration from t to the first instant of the
// following calendar month in UTC. It is used as the TTL attached to a
// month's counter key on its first increment.
func UntilNextMonth(t time.Time) time.Duration {
	t = t.UTC()

	// time.Date normalizes month 13 into January of the next year.
	next := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)

	return next.Sub(t)
}
