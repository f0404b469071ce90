package models

import "time"

// LoginAttempt is an append-only record of a login attempt from a client IP.
// There is no foreign key to User: the attempted username may not exist.
// Rows are never mutated or deleted; the throttle service counts recent
// failed rows per IP to decide when to create a ban.
type LoginAttempt struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	IPAddress string    `gorm:"size:50;not null;index" json:"ip_address"`
	Username  string    `gorm:"size:50" json:"username"`
	Success   bool      `gorm:"not null" json:"success"`
	CreatedAt time.Time `json:"created_at"`
}
