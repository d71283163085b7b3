package models

import "time"

// Todo is one item in an owner's ordered list. Order values are unique per
// owner; they are not required to be contiguous (deletes leave gaps).
type Todo struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Order     int       `json:"order"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Session types emitted by the timer engine.
const (
	SessionPomodoro = "Pomodoro"
	SessionBreak    = "Break"
)

// SessionRecord is one completed timer session. Duration is the nominal full
// duration of the mode in minutes, not elapsed wall-clock time.
type SessionRecord struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Duration  int       `json:"duration"`
	Date      time.Time `json:"date"`
	Time      string    `json:"time,omitempty"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionCommand is the message payload for Kafka (append a session record).
type SessionCommand struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Duration    int       `json:"duration"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time,omitempty"`
	OwnerID     string    `json:"owner_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// User is an account that owns todos and session records.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
