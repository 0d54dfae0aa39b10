// Package therapist is the library surface: a stateless single-query entry
// point and a stateful session that remembers the conversation.
package therapist

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zhouzirui/furby-therapist/internal/analysis/matcher"
	"github.com/zhouzirui/furby-therapist/internal/analysis/text"
	"github.com/zhouzirui/furby-therapist/internal/config"
	"github.com/zhouzirui/furby-therapist/internal/model/category"
	"github.com/zhouzirui/furby-therapist/internal/model/query"
	"github.com/zhouzirui/furby-therapist/internal/service/chat"
	"github.com/zhouzirui/furby-therapist/internal/service/emotion"
	"github.com/zhouzirui/furby-therapist/internal/service/response"
)

// Canned replies for paths that never reach a category.
const (
	NothingToRepeatMessage = "*confused chirp* Ooh! Furby doesn't remember what to repeat! Ask me something new! *gentle beep*"
	NothingToRepeatClean   = "Furby doesn't remember what to repeat! Ask me something new!"
	emptyInputClean        = "Furby is listening! Tell me what's on your mind!"
)

var emptyInputMessages = []string{
	"*gentle chirp* Furby is listening! Tell me what's on your mind! *encouraging beep*",
	"*patient purr* Take your time! Furby is here when you're ready to share! *supportive chirp*",
	"*understanding beep* Sometimes it's hard to find words. That's okay! Furby understands! *gentle purr*",
}

// Option customises a Therapist.
type Option func(*Therapist)

// WithRand replaces the random source used for response selection.
func WithRand(r response.Rand) Option {
	return func(t *Therapist) { t.rng = r }
}

// WithStateful overrides the configured session mode.
func WithStateful(stateful bool) Option {
	return func(t *Therapist) { t.stateful = stateful }
}

// Therapist runs the full pipeline for one session. It is not safe for
// concurrent use; run one per session.
type Therapist struct {
	table     *category.Table
	tuning    config.Tuning
	bikes     bool
	stateful  bool
	rng       response.Rand
	extractor *text.Extractor
	matcher   *matcher.Matcher
	synth     *response.Synthesizer
	context   *emotion.Service
	conv      *chat.Conversation

	emptyInputs int
	log         *zap.Logger
}

// Result pairs a response with the analysis that produced it. Analysis is nil
// for replies that skip the pipeline (empty, invalid, repeat). Context is set
// only when a stateful session adjusted the analysis.
type Result struct {
	Response query.Response      `json:"response"`
	Analysis *query.Analysis     `json:"analysis,omitempty"`
	Context  *emotion.Adjustment `json:"context,omitempty"`
}

// New builds a therapist over an already loaded table. A nil cfg uses
// config.Default().
func New(table *category.Table, cfg *config.Config, log *zap.Logger, opts ...Option) *Therapist {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}

	t := &Therapist{
		table:    table,
		tuning:   cfg.Tuning,
		bikes:    cfg.Corpus.Bikes,
		stateful: cfg.Session.Stateful,
		log:      log,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		t.rng = response.NewRand(cfg.Session.Seed)
	}

	contextCfg := t.tuning.Context
	contextCfg.Enabled = contextCfg.Enabled && t.stateful

	t.extractor = text.NewExtractor(t.tuning.Extractor, log.Named("extractor"))
	t.matcher = matcher.New(table, t.tuning.Matcher, log.Named("matcher"))
	t.synth = response.NewSynthesizer(table, t.rng, t.tuning.Response, log.Named("synthesizer"))
	t.context = emotion.NewService(contextCfg, log.Named("context"))
	if t.stateful {
		t.conv = chat.NewConversation()
	}

	log.Info("therapist ready",
		zap.Bool("stateful", t.stateful),
		zap.Bool("bikes", t.bikes),
		zap.Int("categories", table.Len()),
		zap.String("schema_version", table.SchemaVersion()))
	return t
}

// ProcessSingle answers one query without keeping any state.
func ProcessSingle(table *category.Table, cfg *config.Config, log *zap.Logger, input string) query.Response {
	return New(table, cfg, log, WithStateful(false)).Process(input)
}

// Process answers input. It never fails; every problem becomes an
// in-character reply.
func (t *Therapist) Process(input string) query.Response {
	return t.ProcessDetailed(input).Response
}

// ProcessDetailed is Process plus the analysis behind the reply.
func (t *Therapist) ProcessDetailed(input string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Error("processing panicked, using emergency response", zap.Any("panic", r))
			result = Result{Response: response.Emergency()}
		}
	}()

	if err := text.Validate(input, t.tuning.MaxInputRunes); err != nil {
		return Result{Response: t.invalidInput(err)}
	}

	if strings.TrimSpace(input) == "" {
		return Result{Response: t.emptyInput()}
	}
	t.emptyInputs = 0

	if text.IsRepeatRequest(input) {
		t.log.Debug("repeat request")
		if resp, ok := t.synth.Repeat(); ok {
			return Result{Response: resp}
		}
		return Result{Response: nothingToRepeat()}
	}

	analysis, adjustment := t.analyze(input)
	resp := t.synth.Synthesize(analysis.Category, analysis.DetectedEmotion)

	if t.conv != nil {
		t.conv.AddTurn(input, analysis.DetectedEmotion, resp.Text(), analysis.Category)
	}
	return Result{Response: resp, Analysis: analysis, Context: adjustment}
}

func (t *Therapist) analyze(input string) (*query.Analysis, *emotion.Adjustment) {
	normalized := text.Normalize(input)
	keywords := t.extractor.Extract(normalized)
	detected, score := t.context.Detect(normalized)

	analysis := &query.Analysis{
		OriginalText:    input,
		NormalizedText:  normalized,
		Keywords:        keywords,
		DetectedEmotion: detected,
		Confidence:      score,
	}

	var adjustment *emotion.Adjustment
	if t.conv != nil && t.context.Enabled() {
		adj := t.context.Adjust(t.conv, analysis)
		adjustment = &adj
	}

	// the matcher's confidence replaces any context adjustment; only the
	// inherited emotion survives
	analysis.Category, analysis.Confidence = t.matcher.Match(keywords)

	t.log.Debug("analyzed query",
		zap.Strings("keywords", keywords),
		zap.String("emotion", analysis.DetectedEmotion),
		zap.String("category", analysis.Category),
		zap.Float64("confidence", analysis.Confidence))
	return analysis, adjustment
}

func (t *Therapist) invalidInput(err error) query.Response {
	t.log.Warn("input rejected", zap.Error(err))

	message := "*confused chirp* Furby couldn't understand that! Try again? *gentle beep*"
	var verr *text.ValidationError
	if errors.As(err, &verr) && verr.Message != "" {
		message = verr.Message
	}
	return query.Response{
		Kind:            query.KindInvalidInput,
		BaseMessage:     message,
		SoundEffects:    response.SoundEffects(message),
		DecoratedOutput: message,
		CleanOutput:     response.Clean(message),
	}
}

func (t *Therapist) emptyInput() query.Response {
	idx := t.emptyInputs
	if idx >= len(emptyInputMessages) {
		idx = len(emptyInputMessages) - 1
	}
	t.emptyInputs++
	t.log.Debug("empty input", zap.Int("count", t.emptyInputs))

	message := emptyInputMessages[idx]
	return query.Response{
		Kind:            query.KindEmptyInput,
		BaseMessage:     message,
		SoundEffects:    response.SoundEffects(message),
		DecoratedOutput: message,
		CleanOutput:     emptyInputClean,
	}
}

func nothingToRepeat() query.Response {
	return query.Response{
		Kind:            query.KindNothingToRepeat,
		BaseMessage:     NothingToRepeatMessage,
		SoundEffects:    []string{"*confused chirp*", "*gentle beep*"},
		DecoratedOutput: NothingToRepeatMessage,
		CleanOutput:     NothingToRepeatClean,
	}
}

// ClearHistory starts a fresh conversation. It is a no-op for stateless
// therapists apart from resetting the empty-input escalation.
func (t *Therapist) ClearHistory() {
	t.emptyInputs = 0
	if t.conv == nil {
		return
	}
	t.conv.Reset()
	t.log.Info("conversation history cleared", zap.String("session_id", t.conv.Session().ID))
}

// Stats summarises the session.
type Stats struct {
	Stateful           bool      `json:"statefulMode"`
	SessionID          string    `json:"sessionId,omitempty"`
	ConversationLength int       `json:"conversationLength"`
	RecentEmotions     []string  `json:"recentEmotions"`
	SessionStart       time.Time `json:"sessionStart,omitempty"`
	LastCategory       string    `json:"lastCategory,omitempty"`
	CyclingMode        bool      `json:"cyclingMode"`
}

// Stats reports the session state. Stateless therapists only report that.
func (t *Therapist) Stats() Stats {
	if t.conv == nil {
		return Stats{Stateful: false, RecentEmotions: []string{}, CyclingMode: t.bikes}
	}
	session := t.conv.Session()
	stats := Stats{
		Stateful:           true,
		SessionID:          session.ID,
		ConversationLength: t.conv.Len(),
		RecentEmotions:     t.conv.RecentEmotions(),
		SessionStart:       session.StartedAt,
		CyclingMode:        t.bikes,
	}
	if last, err := t.conv.LastTurn(); err == nil {
		stats.LastCategory = last.Category
	} else if !errors.Is(err, chat.ErrNoTurns) {
		t.log.Warn("reading last turn failed", zap.Error(err))
	}
	return stats
}

// Conversation exposes the session log, nil when stateless.
func (t *Therapist) Conversation() *chat.Conversation {
	return t.conv
}

// Categories lists category names in corpus order.
func (t *Therapist) Categories() []string {
	return t.table.Names()
}

// Category returns one category's definition.
func (t *Therapist) Category(name string) (category.Category, bool) {
	return t.table.Get(name)
}

// Greeting returns a morning or night greeting.
func (t *Therapist) Greeting(kind response.GreetingKind) string {
	return t.synth.Greeting(kind)
}

// HasCached reports whether a repeat would succeed.
func (t *Therapist) HasCached() bool {
	return t.synth.HasCached()
}

// ClearCache forgets the last reply.
func (t *Therapist) ClearCache() {
	t.synth.ClearCache()
}

// Cleanup releases session state and flushes logs.
func (t *Therapist) Cleanup() {
	t.synth.ClearCache()
	t.log.Info("therapist cleanup completed")
	_ = t.log.Sync()
}
