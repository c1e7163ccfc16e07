package sharelinks

import "time"

// ShareLink freezes one partner's filter selection behind a public token so
// a view can be handed to a driver or dispatcher without a portal login.
type ShareLink struct {
	ID        int        `db:"id" json:"id"`
	Token     string     `db:"token" json:"token"`
	AccountID string     `db:"account_id" json:"account_id"`
	Status    string     `db:"status" json:"status"`
	StartDate *time.Time `db:"start_date" json:"start_date"`
	EndDate   *time.Time `db:"end_date" json:"end_date"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	ExpiresAt time.Time  `db:"expires_at" json:"expires_at"`
}
