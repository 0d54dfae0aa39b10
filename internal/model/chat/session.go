package chat

import "time"

// Session identifies one conversation for the lifetime of the process.
type Session struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"startedAt"`
}
