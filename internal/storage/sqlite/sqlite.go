// Package sqlite persists the clipboard history in a SQLite database via
// gorm.
package sqlite

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lajidonggua/ClipBox/internal/history"
	"github.com/lajidonggua/ClipBox/internal/storage"
)

// entryModel is one persisted history entry. Position is the entry's index in
// the snapshot, front (newest) = 0, so Load can restore the exact order.
type entryModel struct {
	ID        uint   `gorm:"primaryKey"`
	Position  int    `gorm:"index;not null"`
	EntryID   string `gorm:"not null"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt int64
	Kind      string `gorm:"not null"`
	ImagePath string
}

func (entryModel) TableName() string { return "history_entries" }

func (m *entryModel) toEntry() history.Entry {
	return history.Entry{
		ID:        m.EntryID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		Kind:      history.Kind(m.Kind),
		ImagePath: m.ImagePath,
	}
}

func fromEntry(e history.Entry, position int) entryModel {
	return entryModel{
		Position:  position,
		EntryID:   e.ID,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
		Kind:      string(e.Kind),
		ImagePath: e.ImagePath,
	}
}

// Store implements storage.HistoryStore on SQLite.
type Store struct {
	db *gorm.DB
}

var _ storage.HistoryStore = (*Store)(nil)

// New opens (creating if needed) the database at config.DBPath and migrates
// the schema.
func New(config storage.Config) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(config.DBPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(&entryModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Load implements storage.HistoryStore.
func (s *Store) Load() ([]history.Entry, error) {
	var models []entryModel
	if err := s.db.Order("position asc").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	entries := make([]history.Entry, len(models))
	for i, m := range models {
		entries[i] = m.toEntry()
	}
	return entries, nil
}

// Save implements storage.HistoryStore. The rewrite runs in one transaction
// so a concurrent Load never observes a half-written history.
func (s *Store) Save(entries []history.Entry) error {
	models := make([]entryModel, len(entries))
	for i, e := range entries {
		models[i] = fromEntry(e, i)
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entryModel{}).Error; err != nil {
			return err
		}
		if len(models) == 0 {
			return nil
		}
		return tx.Create(&models).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}
