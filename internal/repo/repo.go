// Package repo persists client-side state (cart, wishlist, session
// token) as JSON records in an embedded sqlite database. A record that
// fails to decode is treated as corrupt: it is deleted and the caller
// gets the zero value back.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Record struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (Record) TableName() string {
	return "records"
}

type Store struct {
	DB *gorm.DB
}

func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("DATA_PATH is empty")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate records: %w", err)
	}

	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Load reads the record for key into dest, which must be a non-nil
// pointer. It returns false when no record exists, and also when the
// stored value is corrupt (the record is then removed so the next load
// starts clean). The value is decoded into a scratch copy first and
// dest is written only on full success, because json.Unmarshal fills in
// fields up to the point of failure and a half-decoded record must not
// leak out as real state.
func (s *Store) Load(ctx context.Context, key string, dest any) (bool, error) {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false, fmt.Errorf("load %s: dest must be a non-nil pointer", key)
	}

	var rec Record
	err := s.DB.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}

	scratch := reflect.New(rv.Type().Elem())
	if err := json.Unmarshal(rec.Value, scratch.Interface()); err != nil {
		_ = s.Delete(ctx, key)
		return false, nil
	}
	rv.Elem().Set(scratch.Elem())
	return true, nil
}

func (s *Store) Save(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	rec := Record{Key: key, Value: b}
	err = s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.DB.WithContext(ctx).Delete(&Record{}, "key = ?", key).Error
}
