package database

import (
	"context"
	"errors"

	"khata-pos/internal/models"

	"gorm.io/gorm"
)

var ErrBackupNotFound = errors.New("archived backup not found")

// Archive stores backup files so the shop can roll back without hunting for
// downloads. It is never the live state.
type Archive struct {
	db *gorm.DB
}

func NewArchive(db *gorm.DB) *Archive {
	return &Archive{db: db}
}

// Save stores a backup payload.
func (a *Archive) Save(ctx context.Context, rec models.BackupRecord) (models.BackupRecord, error) {
	rec.ID = 0
	rec.Size = len(rec.Payload)
	if err := a.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return models.BackupRecord{}, err
	}
	return rec, nil
}

// List returns the newest records first, without payloads.
func (a *Archive) List(ctx context.Context, limit int) ([]models.BackupRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	records := []models.BackupRecord{}
	err := a.db.WithContext(ctx).
		Select("id", "kind", "name", "note", "size", "station", "created_at").
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// Load fetches one record with its payload.
func (a *Archive) Load(ctx context.Context, id uint) (models.BackupRecord, error) {
	var rec models.BackupRecord
	err := a.db.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.BackupRecord{}, ErrBackupNotFound
	}
	return rec, err
}
