package dto

import (
	"github.com/google/uuid"
)

type TariffResponse struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	DurationDays int       `json:"duration_days"`
	CourseCode   string    `json:"course_code,omitempty"`
}

type ProductResponse struct {
	Id      uuid.UUID        `json:"id"`
	Name    string           `json:"name"`
	ClubId  string           `json:"club_id,omitempty"`
	Tariffs []TariffResponse `json:"tariffs"`
}
