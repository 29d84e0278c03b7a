package model

import (
	"time"

	"github.com/google/uuid"
)

type AccessGrantRecord struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	ClubId    string    `gorm:"type:varchar(255);not null;index"`
	Source    string    `gorm:"type:varchar(50);not null"`
	OrderId   uuid.UUID `gorm:"type:uuid;not null;index"`
	StartAt   time.Time `gorm:"not null"`
	EndAt     time.Time `gorm:"not null"`
	Status    string    `gorm:"type:varchar(50);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (AccessGrantRecord) TableName() string {
	return "access_grant_records"
}
