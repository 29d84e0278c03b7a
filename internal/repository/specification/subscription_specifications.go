package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OpenForTriple matches the single subscription that currently grants
// access for a (user, product, tariff) triple: active or trial, not
// canceled, access window still open. The grant workflow must extend this
// row instead of creating a second one.
type OpenForTriple struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	TariffID  uuid.UUID
	Now       time.Time
}

func (s OpenForTriple) Apply(db *gorm.DB) *gorm.DB {
	now := s.Now
	if now.IsZero() {
		now = time.Now()
	}
	return db.
		Where("user_id = ? AND product_id = ? AND tariff_id = ?", s.UserID, s.ProductID, s.TariffID).
		Where("status IN ?", []string{"active", "trial"}).
		Where("canceled_at IS NULL").
		Where("access_end > ?", now)
}

// OwnedBy filters any user-scoped table by its owner.
type OwnedBy struct {
	UserID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// CreatedSince filters rows created at or after the given instant.
type CreatedSince struct {
	Since time.Time
}

func (s CreatedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.Since)
}
