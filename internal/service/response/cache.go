package response

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/zhouzirui/furby-therapist/internal/model/query"
)

const lastResponseKey = "last"

// RepeatCache holds the single most recent response, last write wins. An
// optional TTL lets old answers expire; zero keeps them forever.
type RepeatCache struct {
	store *cache.Cache
}

// NewRepeatCache creates an empty cache. No janitor goroutine is started;
// expired entries are simply ignored on read.
func NewRepeatCache(ttl time.Duration) *RepeatCache {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &RepeatCache{store: cache.New(ttl, 0)}
}

// Store overwrites the slot.
func (c *RepeatCache) Store(resp query.Response) {
	c.store.Set(lastResponseKey, resp, cache.DefaultExpiration)
}

// HasCached reports whether a response is available to repeat.
func (c *RepeatCache) HasCached() bool {
	_, ok := c.store.Get(lastResponseKey)
	return ok
}

// Repeat returns the cached response in its clean form: no Furbish phrase and
// the decorated rendering replaced by the clean one.
func (c *RepeatCache) Repeat() (query.Response, bool) {
	v, ok := c.store.Get(lastResponseKey)
	if !ok {
		return query.Response{}, false
	}
	last, ok := v.(query.Response)
	if !ok {
		return query.Response{}, false
	}

	clean := last.CleanOutput
	if clean == "" {
		clean = Clean(last.BaseMessage)
	}

	return query.Response{
		Kind:            query.KindRepeat,
		Category:        last.Category,
		BaseMessage:     last.BaseMessage,
		SoundEffects:    append([]string(nil), last.SoundEffects...),
		Phrase:          nil,
		DecoratedOutput: clean,
		CleanOutput:     clean,
	}, true
}

// Clear empties the slot.
func (c *RepeatCache) Clear() {
	c.store.Delete(lastResponseKey)
}
