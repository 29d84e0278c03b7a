package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditRecord rows are append-only: no UpdatedAt, no soft delete, never
// mutated after insert.
type AuditRecord struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ActorId      *uuid.UUID     `gorm:"type:uuid;index"`
	Action       string         `gorm:"type:varchar(100);not null;index"`
	TargetUserId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Meta         datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"default:now();not null;index"`
}

func (AuditRecord) TableName() string {
	return "audit_records"
}
