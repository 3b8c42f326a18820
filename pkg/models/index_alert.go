package models

import (
	"time"
)

// IndexAlert records one degraded-query event: a server-sorted query failed
// for want of a composite index and the caller fell back to an in-memory sort.
// Alerts are deduplicated by Key; recurrences bump Count and LastSeen.
type IndexAlert struct {
	// Key is Source + "|" + IndexLink and is unique within the log.
	Key       string            `json:"key"`
	Source    string            `json:"source"`
	Message   string            `json:"message"`
	IndexLink string            `json:"index_link"`
	Path      string            `json:"path"`
	Count     int               `json:"count"`
	FirstSeen time.Time         `json:"first_seen"`
	LastSeen  time.Time         `json:"last_seen"`
	Details   map[string]string `json:"details,omitempty"`
}

// AlertKey builds the dedupe key for a (source, indexLink) pair.
func AlertKey(source, indexLink string) string {
	return source + "|" + indexLink
}
