package model

import "time"

// ActivityLog is an audit entry of something a user did.
type ActivityLog struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	UserID     int64     `gorm:"index;not null" json:"user_id"`
	Activity   string    `gorm:"size:512;not null" json:"activity"`
	OccurredAt time.Time `gorm:"index;not null" json:"occurred_at"`

	User *User `json:"user,omitempty"`
}
