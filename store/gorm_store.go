package store

import (
	"context"
	"errors"
	"time"

	json "github.com/goccy/go-json"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type recordTable struct {
	Name      string    `gorm:"primaryKey;size:63"`
	Columns   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (recordTable) TableName() string { return "record_tables" }

type storedRecord struct {
	ID        uint      `gorm:"primarykey"`
	Table     string    `gorm:"column:table_name;size:63;not null;index"`
	Payload   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (storedRecord) TableName() string { return "records" }

// GormStore keeps every table as rows of a single "records" table in a SQL
// database, one JSON payload per record.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&recordTable{}, &storedRecord{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Append(ctx context.Context, table string, record Record) error {
	if !validTable(table) {
		return storageErr(table, "append", ErrInvalidTable)
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return storageErr(table, "append", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ensureTable(tx, table, sortedKeys(record)); err != nil {
			return err
		}
		return tx.Create(&storedRecord{
			Table:     table,
			Payload:   string(payload),
			CreatedAt: time.Now(),
		}).Error
	})
	if err != nil {
		return storageErr(table, "append", err)
	}
	return nil
}

func (s *GormStore) ReadAll(ctx context.Context, table string) ([]Record, error) {
	if !validTable(table) {
		return nil, storageErr(table, "read_all", ErrInvalidTable)
	}

	var stored []storedRecord
	err := s.db.WithContext(ctx).
		Where("table_name = ?", table).
		Order("id asc").
		Find(&stored).Error
	if err != nil {
		return nil, storageErr(table, "read_all", err)
	}

	rows := make([]Record, 0, len(stored))
	for _, sr := range stored {
		var r Record
		if err := json.Unmarshal([]byte(sr.Payload), &r); err != nil {
			return nil, storageErr(table, "read_all", err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func (s *GormStore) Overwrite(ctx context.Context, table string, rows []Record) error {
	if !validTable(table) {
		return storageErr(table, "overwrite", ErrInvalidTable)
	}

	var columns []string
	if len(rows) > 0 {
		columns = sortedKeys(rows[0])
	}

	now := time.Now()
	stored := make([]storedRecord, 0, len(rows))
	for _, r := range rows {
		payload, err := json.Marshal(r)
		if err != nil {
			return storageErr(table, "overwrite", err)
		}
		stored = append(stored, storedRecord{Table: table, Payload: string(payload), CreatedAt: now})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ensureTable(tx, table, columns); err != nil {
			return err
		}
		if err := tx.Where("table_name = ?", table).Delete(&storedRecord{}).Error; err != nil {
			return err
		}
		if len(stored) == 0 {
			return nil
		}
		return tx.CreateInBatches(stored, 100).Error
	})
	if err != nil {
		return storageErr(table, "overwrite", err)
	}
	return nil
}

func (s *GormStore) Columns(ctx context.Context, table string) ([]string, error) {
	if !validTable(table) {
		return nil, storageErr(table, "columns", ErrInvalidTable)
	}

	var meta recordTable
	err := s.db.WithContext(ctx).Where("name = ?", table).First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(table, "columns", err)
	}

	columns, err := decodeColumns(meta)
	if err != nil {
		return nil, storageErr(table, "columns", err)
	}
	return columns, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ensureTable creates the table metadata row on first use and returns the
// column set the table holds. Concurrent first writers race on the insert;
// the loser keeps the row the winner wrote.
func ensureTable(tx *gorm.DB, table string, columns []string) ([]string, error) {
	var meta recordTable
	err := tx.Where("name = ?", table).First(&meta).Error
	if err == nil {
		return decodeColumns(meta)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if columns == nil {
		columns = []string{}
	}
	encoded, err := json.Marshal(columns)
	if err != nil {
		return nil, err
	}
	meta = recordTable{Name: table, Columns: string(encoded), CreatedAt: time.Now()}
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&meta)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 1 {
		return columns, nil
	}

	if err := tx.Where("name = ?", table).First(&meta).Error; err != nil {
		return nil, err
	}
	return decodeColumns(meta)
}

func decodeColumns(meta recordTable) ([]string, error) {
	var columns []string
	if err := json.Unmarshal([]byte(meta.Columns), &columns); err != nil {
		return nil, err
	}
	return columns, nil
}
