// Package response turns a matched category into the Furby reply the user
// sees, and remembers the last reply so it can be repeated.
package response

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zhouzirui/furby-therapist/internal/model/category"
	"github.com/zhouzirui/furby-therapist/internal/model/query"
)

// Rand is the randomness the synthesizer draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a seeded source. A zero seed uses the clock.
func NewRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Emergency texts are used when the corpus cannot supply anything.
const (
	EmergencyMessage      = "*confused chirp* Furby is having a little trouble, but Furby is still here for you! *gentle purr*"
	EmergencyCleanMessage = "Furby is having a little trouble, but Furby is still here for you!"
)

// Options tunes decoration.
type Options struct {
	SoundChance  float64 `yaml:"sound_chance"`
	PhraseChance float64 `yaml:"phrase_chance"`
	// RepeatTTL expires the remembered reply; zero never expires.
	RepeatTTL time.Duration `yaml:"repeat_ttl"`
}

// DefaultOptions returns the stock decoration probabilities.
func DefaultOptions() Options {
	return Options{SoundChance: 0.2, PhraseChance: 0.3}
}

// Synthesizer picks and decorates responses. It owns the repeat cache.
type Synthesizer struct {
	table *category.Table
	rng   Rand
	opts  Options
	cache *RepeatCache
	log   *zap.Logger
}

// NewSynthesizer wires a synthesizer over table. A nil rng gets a clock seeded
// source.
func NewSynthesizer(table *category.Table, rng Rand, opts Options, log *zap.Logger) *Synthesizer {
	if rng == nil {
		rng = NewRand(0)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Synthesizer{
		table: table,
		rng:   rng,
		opts:  opts,
		cache: NewRepeatCache(opts.RepeatTTL),
		log:   log,
	}
}

// Synthesize builds the reply for categoryName and stores it for repeats.
// Unknown names resolve to the fallback category. It never fails: any internal
// error degrades to the emergency response.
func (s *Synthesizer) Synthesize(categoryName, emotion string) (resp query.Response) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("synthesis panicked, using emergency response", zap.Any("panic", r))
			resp = Emergency()
			s.cache.Store(resp)
		}
	}()

	cat, ok := s.resolve(categoryName)
	if !ok {
		s.log.Error("corpus has no usable category", zap.String("category", categoryName))
		resp = Emergency()
		s.cache.Store(resp)
		return resp
	}

	base := cat.Responses[s.rng.Intn(len(cat.Responses))]
	enhanced := s.addSound(base, cat.SoundEffects)
	phrase := s.pickPhrase(cat.Phrases)

	decorated := enhanced
	if phrase != nil {
		decorated = fmt.Sprintf("%s\n\n%s! (%s)", enhanced, phrase.Furbish, phrase.Translation)
	}

	resp = query.Response{
		Kind:            query.KindCategory,
		Category:        cat.Name,
		BaseMessage:     base,
		SoundEffects:    SoundEffects(enhanced),
		Phrase:          phrase,
		DecoratedOutput: decorated,
		CleanOutput:     Clean(enhanced),
	}

	s.log.Debug("synthesized response",
		zap.String("category", cat.Name),
		zap.String("emotion", emotion),
		zap.Bool("phrase", phrase != nil))

	s.cache.Store(resp)
	return resp
}

// HasCached reports whether there is a reply to repeat.
func (s *Synthesizer) HasCached() bool {
	return s.cache.HasCached()
}

// Repeat returns the clean form of the last reply.
func (s *Synthesizer) Repeat() (query.Response, bool) {
	return s.cache.Repeat()
}

// ClearCache forgets the last reply.
func (s *Synthesizer) ClearCache() {
	s.cache.Clear()
}

// Emergency is the hard-coded reply used when nothing else can be produced.
func Emergency() query.Response {
	return query.Response{
		Kind:            query.KindEmergency,
		Category:        category.FallbackName,
		BaseMessage:     EmergencyMessage,
		DecoratedOutput: EmergencyMessage,
		CleanOutput:     EmergencyCleanMessage,
	}
}

func (s *Synthesizer) resolve(name string) (category.Category, bool) {
	if cat, ok := s.table.Get(name); ok && len(cat.Responses) > 0 {
		return cat, true
	}
	if cat, ok := s.table.Get(category.FallbackName); ok && len(cat.Responses) > 0 {
		if name != category.FallbackName {
			s.log.Warn("unknown category, using fallback", zap.String("category", name))
		}
		return cat, true
	}
	if s.table == nil {
		return category.Category{}, false
	}
	for _, cat := range s.table.All() {
		if len(cat.Responses) > 0 {
			return cat, true
		}
	}
	return category.Category{}, false
}

func (s *Synthesizer) addSound(message string, sounds []string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("sound decoration failed", zap.Any("panic", r))
			out = message
		}
	}()

	if s.rng.Float64() >= s.opts.SoundChance || len(sounds) == 0 {
		return message
	}
	trimmed := strings.TrimSpace(message)
	if strings.HasSuffix(trimmed, "!") || strings.HasSuffix(trimmed, "*") {
		return message
	}
	return message + " " + sounds[s.rng.Intn(len(sounds))]
}

func (s *Synthesizer) pickPhrase(phrases []category.Phrase) (out *category.Phrase) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("phrase selection failed", zap.Any("panic", r))
			out = nil
		}
	}()

	if s.rng.Float64() >= s.opts.PhraseChance || len(phrases) == 0 {
		return nil
	}
	p := phrases[s.rng.Intn(len(phrases))]
	if p.Furbish == "" {
		return nil
	}
	return &p
}
