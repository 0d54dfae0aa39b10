package chat

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/furby-therapist/internal/analysis/text"
	"github.com/zhouzirui/furby-therapist/internal/model/chat"
)

const (
	// MaxRecentEmotions bounds the recent-emotion ring.
	MaxRecentEmotions = 5
	// TopicWindow is how many trailing turns HasDiscussedTopic looks at.
	TopicWindow = 3

	neutralEmotion = "neutral"
)

var ErrNoTurns = errors.New("conversation has no turns")

// Conversation is the rolling log of one session. It is owned by a single
// caller and is not safe for concurrent use.
type Conversation struct {
	session        chat.Session
	turns          []chat.Turn
	recentEmotions []string
	now            func() time.Time
}

// NewConversation starts an empty conversation with a fresh session id.
func NewConversation() *Conversation {
	c := &Conversation{now: func() time.Time { return time.Now().UTC() }}
	c.Reset()
	return c
}

// Reset drops all turns and emotions and starts a new session.
func (c *Conversation) Reset() {
	c.session = chat.Session{
		ID:        uuid.NewString(),
		StartedAt: c.now(),
	}
	c.turns = make([]chat.Turn, 0, 16)
	c.recentEmotions = make([]string, 0, MaxRecentEmotions)
}

func (c *Conversation) Session() chat.Session {
	return c.session
}

// AddTurn appends a turn. Non-neutral emotions also enter the recent ring,
// which drops its oldest entry past MaxRecentEmotions.
func (c *Conversation) AddTurn(input, emotion, response, category string) {
	c.turns = append(c.turns, chat.Turn{
		Timestamp:    c.now(),
		UserInput:    input,
		UserEmotion:  emotion,
		ResponseText: response,
		Category:     category,
	})

	if emotion == "" || emotion == neutralEmotion {
		return
	}
	c.recentEmotions = append(c.recentEmotions, emotion)
	if len(c.recentEmotions) > MaxRecentEmotions {
		c.recentEmotions = c.recentEmotions[len(c.recentEmotions)-MaxRecentEmotions:]
	}
}

// HasDiscussedTopic reports whether any keyword appears as a token (or token
// run, for underscore-joined phrases) in the input of the last TopicWindow
// turns.
func (c *Conversation) HasDiscussedTopic(keywords []string) bool {
	if len(keywords) == 0 || len(c.turns) == 0 {
		return false
	}

	start := len(c.turns) - TopicWindow
	if start < 0 {
		start = 0
	}

	for _, turn := range c.turns[start:] {
		padded := " " + text.Normalize(turn.UserInput) + " "
		for _, kw := range keywords {
			kw = strings.TrimSpace(strings.ReplaceAll(strings.ToLower(kw), "_", " "))
			if kw == "" {
				continue
			}
			if strings.Contains(padded, " "+kw+" ") {
				return true
			}
		}
	}
	return false
}

// RecentEmotions returns the ring oldest first.
func (c *Conversation) RecentEmotions() []string {
	return append([]string(nil), c.recentEmotions...)
}

// MostRecentEmotion returns the newest non-neutral emotion, if any.
func (c *Conversation) MostRecentEmotion() (string, bool) {
	if len(c.recentEmotions) == 0 {
		return "", false
	}
	return c.recentEmotions[len(c.recentEmotions)-1], true
}

func (c *Conversation) Turns() []chat.Turn {
	copied := make([]chat.Turn, len(c.turns))
	copy(copied, c.turns)
	return copied
}

// LastTurn returns the newest turn or ErrNoTurns.
func (c *Conversation) LastTurn() (chat.Turn, error) {
	if len(c.turns) == 0 {
		return chat.Turn{}, ErrNoTurns
	}
	return c.turns[len(c.turns)-1], nil
}

func (c *Conversation) Len() int {
	return len(c.turns)
}
