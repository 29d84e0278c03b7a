package model

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Slug        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	ClubId      *string   `gorm:"type:varchar(255)"`
	IsActive    bool      `gorm:"default:true"`
	SortOrder   int       `gorm:"default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	Tariffs []*Tariff `gorm:"foreignKey:ProductId"`
}

func (Product) TableName() string {
	return "products"
}

type Tariff struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductId     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Price         float64   `gorm:"type:decimal(10,2);not null"`
	Currency      string    `gorm:"type:varchar(3);not null;default:'USD'"`
	DurationDays  int       `gorm:"not null;default:30"`
	CourseOfferId *string   `gorm:"type:varchar(255)"`
	CourseCode    *string   `gorm:"type:varchar(255)"`
	IsActive      bool      `gorm:"default:true"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Tariff) TableName() string {
	return "tariffs"
}
