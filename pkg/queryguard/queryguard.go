// Package queryguard wraps server-sorted record store queries with an
// unsorted fallback. When the primary query fails because the store is
// missing a composite sort index, the fallback runs instead and rows are
// sorted in memory, so callers never observe the degradation as a failure.
package queryguard

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cyberpath-academy/learning-engine/pkg/models"
)

// SortDirection controls the in-memory fallback sort order.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// QueryFunc fetches rows from the record store.
type QueryFunc[T any] func(ctx context.Context) ([]T, error)

// Query describes a guarded query: a primary (server-sorted) form and a
// fallback (unsorted) form over the same predicate.
type Query[T any] struct {
	// Source tags alerts for dedupe, e.g. "quiz-attempts".
	Source string
	// Path is the logical collection path, recorded for diagnostics.
	Path string
	// SortBy names the field the primary query sorts on. Recorded in the
	// alert details; the fallback sort itself uses SortKey.
	SortBy  string
	SortDir SortDirection
	// SortKey extracts the sort key from a row for the in-memory fallback
	// sort. If nil, fallback rows keep their store order.
	SortKey func(T) any
	// MapRow is an optional transformation applied to each fallback row.
	MapRow func(T) T

	Primary  QueryFunc[T]
	Fallback QueryFunc[T]
}

// Result carries the rows plus degradation diagnostics.
type Result[T any] struct {
	Rows []T
	// IndexRequired is true when the primary query failed for want of an
	// index and the fallback produced these rows.
	IndexRequired bool
	// IndexLink is the index-creation URL extracted from the error message,
	// empty if the message carried none.
	IndexLink string
}

// AlertRecorder receives degradation events. Implemented by alertlog.Store.
type AlertRecorder interface {
	Record(alert *models.IndexAlert) error
}

// Executor runs guarded queries and records degradation alerts.
type Executor struct {
	recorder AlertRecorder
	logger   *zap.Logger
}

// NewExecutor creates an executor. recorder may be nil, in which case
// degradations are only logged.
func NewExecutor(recorder AlertRecorder, logger *zap.Logger) *Executor {
	return &Executor{
		recorder: recorder,
		logger:   logger.Named("queryguard"),
	}
}

// Execute runs q.Primary; on success the rows are returned unmodified with
// IndexRequired=false. On an index-miss error it runs q.Fallback, applies
// MapRow, sorts in memory, records an alert, and returns IndexRequired=true.
// Any other error is returned unchanged and the fallback is not invoked.
func Execute[T any](ctx context.Context, ex *Executor, q Query[T]) (*Result[T], error) {
	rows, err := q.Primary(ctx)
	if err == nil {
		return &Result[T]{Rows: rows}, nil
	}

	if !IsIndexMiss(err) {
		return nil, err
	}

	link := ExtractIndexLink(err.Error())
	ex.logger.Warn("primary query requires a missing index, using fallback",
		zap.String("source", q.Source),
		zap.String("path", q.Path),
		zap.String("sort_by", q.SortBy),
		zap.String("index_link", link))

	fallbackRows, fbErr := q.Fallback(ctx)
	if fbErr != nil {
		return nil, fbErr
	}

	if q.MapRow != nil {
		for i, row := range fallbackRows {
			fallbackRows[i] = q.MapRow(row)
		}
	}

	if q.SortKey != nil {
		sortRows(fallbackRows, q.SortKey, q.SortDir)
	}

	ex.recordAlert(q.Source, q.Path, q.SortBy, string(q.SortDir), link, err)

	return &Result[T]{
		Rows:          fallbackRows,
		IndexRequired: true,
		IndexLink:     link,
	}, nil
}

// recordAlert persists a degradation alert. Recorder failures must never
// propagate to the query caller, so everything here is contained.
func (ex *Executor) recordAlert(source, path, sortBy, sortDir, link string, cause error) {
	if ex.recorder == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			ex.logger.Warn("alert recorder panicked", zap.Any("panic", r))
		}
	}()

	alert := &models.IndexAlert{
		Key:       models.AlertKey(source, link),
		Source:    source,
		Message:   cause.Error(),
		IndexLink: link,
		Path:      path,
		Details: map[string]string{
			"sort_by":  sortBy,
			"sort_dir": sortDir,
		},
	}

	if err := ex.recorder.Record(alert); err != nil {
		ex.logger.Warn("failed to record index alert",
			zap.String("key", alert.Key),
			zap.Error(err))
	}
}

// FailedPreconditioner marks errors whose classification is a failed
// precondition, the store SDK's signal for a missing query index.
type FailedPreconditioner interface {
	FailedPrecondition() bool
}

// indexMissPatterns are message fragments that identify an index-requirement
// failure across store SDK versions.
var indexMissPatterns = []string{
	"requires an index",
	"needs an index",
	"no matching index",
	"failed precondition",
	"failed-precondition",
}

// IsIndexMiss reports whether err represents a missing-index failure.
// Errors implementing FailedPreconditioner are honored first; otherwise the
// message is pattern-matched.
func IsIndexMiss(err error) bool {
	if err == nil {
		return false
	}

	var fp FailedPreconditioner
	if errors.As(err, &fp) {
		return fp.FailedPrecondition()
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range indexMissPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// indexLinkPattern matches the index-creation console URL embedded in
// missing-index error messages.
var indexLinkPattern = regexp.MustCompile(`https?://[^\s"')\]]+`)

// ExtractIndexLink returns the first URL found in msg, or "".
func ExtractIndexLink(msg string) string {
	return indexLinkPattern.FindString(msg)
}

// sortRows orders rows by the extracted key. Keys are coerced to float64:
// timestamps become epoch millis, numerics pass through, everything else
// (including missing values) becomes 0, matching the order the server-sorted
// query would have produced.
func sortRows[T any](rows []T, key func(T) any, dir SortDirection) {
	sort.SliceStable(rows, func(i, j int) bool {
		a := sortValue(key(rows[i]))
		b := sortValue(key(rows[j]))
		if dir == SortAsc {
			return a < b
		}
		return a > b
	})
}

// sortValue coerces a sort key to a comparable float64.
func sortValue(v any) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case time.Time:
		if val.IsZero() {
			return 0
		}
		return float64(val.UnixMilli())
	case *time.Time:
		if val == nil || val.IsZero() {
			return 0
		}
		return float64(val.UnixMilli())
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		if ts, err := time.Parse(time.RFC3339, val); err == nil {
			return float64(ts.UnixMilli())
		}
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
		return 0
	default:
		return 0
	}
}
