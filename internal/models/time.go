package models

import "time"

// Timestamps travel as ISO-8601 strings end to end: local snapshots, remote
// rows and the wire all carry the same representation.

// NowISO returns the current UTC time in ISO-8601 form.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// ParseISO parses an ISO-8601 timestamp produced by NowISO or by the backend.
func ParseISO(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// OlderThan reports whether the ISO timestamp ts lies further in the past
// than the given age, measured from now. Unparseable or empty timestamps are
// never considered expired.
func OlderThan(ts string, age time.Duration, now time.Time) bool {
	t, err := ParseISO(ts)
	if err != nil {
		return false
	}
	return now.Sub(t) > age
}
