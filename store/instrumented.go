package store

import (
	"context"

	"gabinete-digital/metrics"

	"go.uber.org/zap"
)

type instrumentedStore struct {
	next    Store
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewInstrumentedStore counts every operation of next and logs failures.
func NewInstrumentedStore(next Store, m *metrics.Metrics, logger *zap.Logger) Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &instrumentedStore{
		next:    next,
		metrics: m,
		logger:  logger.With(zap.String("component", "store")),
	}
}

func (s *instrumentedStore) Append(ctx context.Context, table string, record Record) error {
	err := s.next.Append(ctx, table, record)
	s.observe(table, "append", err)
	return err
}

func (s *instrumentedStore) ReadAll(ctx context.Context, table string) ([]Record, error) {
	rows, err := s.next.ReadAll(ctx, table)
	s.observe(table, "read_all", err)
	return rows, err
}

func (s *instrumentedStore) Overwrite(ctx context.Context, table string, rows []Record) error {
	err := s.next.Overwrite(ctx, table, rows)
	s.observe(table, "overwrite", err)
	if err == nil {
		s.logger.Info("table overwritten", zap.String("table", table), zap.Int("rows", len(rows)))
	}
	return err
}

func (s *instrumentedStore) Columns(ctx context.Context, table string) ([]string, error) {
	columns, err := s.next.Columns(ctx, table)
	s.observe(table, "columns", err)
	return columns, err
}

func (s *instrumentedStore) Close() error {
	return s.next.Close()
}

func (s *instrumentedStore) observe(table, op string, err error) {
	s.metrics.RecordStoreOperation(table, op, metrics.StatusLabel(err))
	if err != nil {
		s.logger.Error("store operation failed",
			zap.String("table", table),
			zap.String("operation", op),
			zap.Error(err))
	}
}
