package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/suPer8Hu/taim-chat/internal/snapshot"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Snapshot is one persisted slot.
type Snapshot struct {
	Slot      string    `gorm:"type:varchar(128);primaryKey"`
	Payload   string    `gorm:"type:longtext;not null"`
	UpdatedAt time.Time
}

func (Snapshot) TableName() string { return "app_snapshots" }

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Snapshot{})
}

func (s *Store) Get(ctx context.Context, slot string) ([]byte, error) {
	var row Snapshot
	if err := s.db.WithContext(ctx).Where("slot = ?", slot).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, snapshot.ErrNotFound
		}
		return nil, err
	}
	return []byte(row.Payload), nil
}

// Put overwrites the whole slot; last write wins.
func (s *Store) Put(ctx context.Context, slot string, payload []byte) error {
	row := Snapshot{Slot: slot, Payload: string(payload), UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
}
