package repositories

import (
	"fmt"
	"strconv"
	"time"

	"gabinete-digital/models"
	"gabinete-digital/store"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(r store.Record, field string) (time.Time, error) {
	v := r[field]
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("field %s: %w", field, err)
	}
	return t, nil
}

func parseInt(r store.Record, field string) (int, error) {
	v := r[field]
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", field, err)
	}
	return n, nil
}

func corruptRow(table string, err error) error {
	return &models.ErrorStorage{Table: table, Op: "decode", Err: err}
}
