package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one row of the key/value table.
type Entry struct {
	Key       string `gorm:"column:entry_key;primaryKey;size:191"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "kv_entries" }

// GormKV stores entries in a SQL table. sqlite is the on-device default,
// postgres works the same way.
type GormKV struct {
	DB *gorm.DB
}

// NewGormKV migrates the key/value table and returns the store.
func NewGormKV(db *gorm.DB) (*GormKV, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &GormKV{DB: db}, nil
}

func (s *GormKV) Load(ctx context.Context, key string) (string, bool, error) {
	var e Entry
	err := s.DB.WithContext(ctx).Where("entry_key = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return e.Value, true, nil
}

func (s *GormKV) Save(ctx context.Context, key, value string) error {
	e := Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

func (s *GormKV) Remove(ctx context.Context, key string) error {
	return s.DB.WithContext(ctx).Where("entry_key = ?", key).Delete(&Entry{}).Error
}

func (s *GormKV) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
