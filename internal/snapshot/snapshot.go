// Package snapshot keeps a local copy of the last successfully fetched
// managed standups and history so the console can show something on
// startup before the network answers (stale-but-available across runs).
package snapshot

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Gurkunwar/dailybot-console/internal/models"
)

type ManagedStandupRow struct {
	gorm.Model
	StandupID       uint `gorm:"uniqueIndex"`
	Name            string
	Time            string
	GuildName       string
	ChannelName     string
	ReportChannelID string
}

type HistoryRow struct {
	gorm.Model
	EntryID   uint     `gorm:"uniqueIndex"`
	StandupID uint     `gorm:"index"`
	UserID    string   `gorm:"index"`
	Date      string   `gorm:"index"`
	Answers   []string `gorm:"type:text;serializer:json"`
}

type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&ManagedStandupRow{}, &HistoryRow{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// SaveManaged replaces the stored managed-standup list with standups.
func (s *Store) SaveManaged(standups []models.ManagedStandup) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&ManagedStandupRow{}).Error; err != nil {
			return err
		}
		for _, st := range standups {
			row := ManagedStandupRow{
				StandupID:       st.ID,
				Name:            st.Name,
				Time:            st.Time,
				GuildName:       st.GuildName,
				ChannelName:     st.ChannelName,
				ReportChannelID: st.ReportChannelID,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) LoadManaged() ([]models.ManagedStandup, error) {
	var rows []ManagedStandupRow
	if err := s.db.Order("standup_id").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]models.ManagedStandup, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.ManagedStandup{
			ID:              row.StandupID,
			Name:            row.Name,
			Time:            row.Time,
			GuildName:       row.GuildName,
			ChannelName:     row.ChannelName,
			ReportChannelID: row.ReportChannelID,
		})
	}
	return out, nil
}

// SaveHistory stores the submitted entries for one standup, replacing
// whatever was there from the previous fetch.
func (s *Store) SaveHistory(standupID uint, entries []models.HistoryEntry) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("standup_id = ?", standupID).Delete(&HistoryRow{}).Error; err != nil {
			return err
		}
		for _, h := range entries {
			row := HistoryRow{
				EntryID:   h.ID,
				StandupID: h.StandupID,
				UserID:    h.UserID,
				Date:      h.Date,
				Answers:   h.Answers,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) LoadHistory(standupID uint) ([]models.HistoryEntry, error) {
	var rows []HistoryRow
	if err := s.db.Where("standup_id = ?", standupID).Order("date desc").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]models.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.HistoryEntry{
			ID:        row.EntryID,
			StandupID: row.StandupID,
			UserID:    row.UserID,
			Date:      row.Date,
			Answers:   row.Answers,
		})
	}
	return out, nil
}
