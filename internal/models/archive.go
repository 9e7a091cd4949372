package models

import "time"

// BackupRecord - A backup file kept in the archive database
type BackupRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Kind      string    `gorm:"size:20;index" json:"kind"` // full | inventory
	Name      string    `gorm:"size:120" json:"name"`
	Note      string    `gorm:"size:255" json:"note"`
	Size      int       `json:"size"`
	Station   string    `gorm:"size:40" json:"station"`
	Payload   []byte    `gorm:"type:longblob" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
