// Package store persists mapping-shaped records in named tables.
//
// The store knows nothing about what the records mean: drafts, ideas, board
// posts and users all share the same append/read/overwrite facility.
package store

import (
	"context"
	"errors"
	"regexp"
	"sort"
)

// Record is one row: field name to value.
type Record map[string]string

const (
	TableDrafts = "proposal_drafts"
	TableIdeas  = "ideas"
	TablePosts  = "board_posts"
	TableUsers  = "users"
)

// ErrInvalidTable is returned for table names that are not lower-case
// identifiers.
var ErrInvalidTable = errors.New("invalid table name")

type Store interface {
	// Append adds record as a new row, creating the table with the record's
	// field set if it does not exist yet.
	Append(ctx context.Context, table string, record Record) error
	// ReadAll returns every row in insertion order. Unknown tables yield an
	// empty slice.
	ReadAll(ctx context.Context, table string) ([]Record, error)
	// Overwrite replaces the table content with rows.
	Overwrite(ctx context.Context, table string, rows []Record) error
	// Columns returns the field set fixed when the table was created.
	Columns(ctx context.Context, table string) ([]string, error)
	Close() error
}

var tableNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

func validTable(table string) bool {
	return tableNamePattern.MatchString(table)
}

func sortedKeys(r Record) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy of r so callers cannot mutate stored rows.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
