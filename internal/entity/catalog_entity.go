package entity

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable membership offering. ClubId is set when the product
// includes a chat-community component.
type Product struct {
	Id          uuid.UUID
	Name        string
	Slug        string
	Description string
	ClubId      *string
	IsActive    bool
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Tariffs []Tariff
}

// HasCommunityComponent reports whether grants on this product must reach
// the community provider.
func (p *Product) HasCommunityComponent() bool {
	return p.ClubId != nil && *p.ClubId != ""
}

// Tariff is one purchasable variant of a product: a price and an access
// duration, optionally mapped onto a course-enrollment offer.
type Tariff struct {
	Id            uuid.UUID
	ProductId     uuid.UUID
	Name          string
	Price         float64
	Currency      string
	DurationDays  int
	CourseOfferId *string
	CourseCode    *string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasCourseComponent reports whether grants on this tariff must reach the
// enrollment provider. The provider-specific offer id is preferred over the
// raw course code.
func (t *Tariff) HasCourseComponent() bool {
	return (t.CourseOfferId != nil && *t.CourseOfferId != "") ||
		(t.CourseCode != nil && *t.CourseCode != "")
}
