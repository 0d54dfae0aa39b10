package chat

import "time"

// Turn is one exchange kept in a stateful conversation.
type Turn struct {
	Timestamp    time.Time `json:"timestamp"`
	UserInput    string    `json:"userInput"`
	UserEmotion  string    `json:"userEmotion"`
	ResponseText string    `json:"responseText"`
	Category     string    `json:"category"`
}
