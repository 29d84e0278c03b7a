package specification

import "gorm.io/gorm"

// ByEmail filters by exact email.
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// UserSearchQuery filters users by email, name or messenger reference.
// Using ILIKE for Postgres (case insensitive).
type UserSearchQuery struct {
	Query string
}

func (s UserSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("email ILIKE ? OR full_name ILIKE ? OR messenger_ref ILIKE ?", pattern, pattern, pattern)
}
