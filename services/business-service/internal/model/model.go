package model

import "time"

type User struct {
	ID           string
	BusinessID   string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Business is one tenant's storefront profile. Hours is the weekly schedule
// as {"mon":"09:00-17:00",...,"sun":""}; an empty value means closed.
type Business struct {
	ID        string
	Name      string
	Slug      string
	Timezone  string
	Phone     string
	Address   string
	Hours     map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Service is a bookable offering with a slot duration.
type Service struct {
	ID           string `json:"id"`
	BusinessID   string `json:"business_id"`
	Name         string `json:"name"`
	DurationMins int    `json:"duration_minutes"`
	PriceCents   int64  `json:"price_cents"`
	Description  string `json:"description"`
	Active       bool   `json:"active"`
}

type MenuItem struct {
	ID          string `json:"id"`
	BusinessID  string `json:"business_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Category    string `json:"category"`
	Available   bool   `json:"available"`
	Position    int    `json:"position"`
}

type Link struct {
	ID         string `json:"id"`
	BusinessID string `json:"business_id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Position   int    `json:"position"`
}

// Entitlements is what the billing tier currently allows a tenant.
type Entitlements struct {
	BusinessID         string
	Tier               string
	MaxMonthlyBookings int
}
