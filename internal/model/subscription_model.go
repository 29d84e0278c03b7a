package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Subscription struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID      `gorm:"type:uuid;not null;index:idx_subscriptions_triple"`
	ProductId       uuid.UUID      `gorm:"type:uuid;not null;index:idx_subscriptions_triple"`
	TariffId        uuid.UUID      `gorm:"type:uuid;not null;index:idx_subscriptions_triple"`
	OrderId         uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status          string         `gorm:"type:varchar(50);not null;index"`
	AccessStart     time.Time      `gorm:"not null"`
	AccessEnd       time.Time      `gorm:"not null;index"`
	CanceledAt      *time.Time     `gorm:""`
	NextChargeAt    *time.Time     `gorm:""`
	AutoRenew       bool           `gorm:"default:false"`
	PaymentMethodId *uuid.UUID     `gorm:"type:uuid"`
	ChargeAttempts  int            `gorm:"default:0"`
	SyncResults     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
