package model

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductId   uuid.UUID  `gorm:"type:uuid;not null;index"`
	TariffId    uuid.UUID  `gorm:"type:uuid;not null;index"`
	BasePrice   float64    `gorm:"type:decimal(10,2);not null"`
	FinalPrice  float64    `gorm:"type:decimal(10,2);not null"`
	PaidAmount  float64    `gorm:"type:decimal(10,2);default:0"`
	Currency    string     `gorm:"type:varchar(3);not null;default:'USD'"`
	Status      string     `gorm:"type:varchar(50);not null;index"`
	IsTrial     bool       `gorm:"default:false"`
	Source      string     `gorm:"type:varchar(50);not null"`
	Comment     string     `gorm:"type:text"`
	SubOffer    *string    `gorm:"type:varchar(255)"`
	AccessStart *time.Time `gorm:""`
	AccessEnd   *time.Time `gorm:""`
	// CreatedAt is stamped with the access-start date for admin grants so
	// revenue reporting reflects economic timing, not administrative timing.
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}

type Payment struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderId    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Amount     float64    `gorm:"type:decimal(10,2);not null"`
	Currency   string     `gorm:"type:varchar(3);not null;default:'USD'"`
	Status     string     `gorm:"type:varchar(50);not null;index"`
	Provider   string     `gorm:"type:varchar(100);not null"`
	ProviderId *string    `gorm:"type:varchar(255)"`
	ReceiptRef *string    `gorm:"type:varchar(255)"`
	PaidAt     *time.Time `gorm:""`
	CreatedAt  time.Time  `gorm:"not null"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime"`
}

func (Payment) TableName() string {
	return "payments"
}
