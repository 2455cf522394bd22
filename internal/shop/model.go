package shop

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Shop struct {
	ID             string    `json:"id"`
	OwnerAccountID string    `json:"owner_account_id"`
	Name           string    `json:"name"`
	LogoURL        *string   `json:"logo_url,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func (s *Shop) IsActive() bool {
	return s.Status == StatusActive
}
