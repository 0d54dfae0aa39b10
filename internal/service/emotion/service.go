package emotion

import (
	"go.uber.org/zap"

	analysis "github.com/zhouzirui/furby-therapist/internal/analysis/emotion"
	"github.com/zhouzirui/furby-therapist/internal/model/query"
	"github.com/zhouzirui/furby-therapist/internal/service/chat"
)

// Config controls how much conversation history biases a new query.
type Config struct {
	Enabled      bool    `yaml:"enabled"`
	TopicBoost   float64 `yaml:"topic_boost"`
	NeutralFloor float64 `yaml:"neutral_floor"`
}

// DefaultConfig returns the stock adjustment policy.
func DefaultConfig() Config {
	return Config{Enabled: true, TopicBoost: 0.2, NeutralFloor: 0.3}
}

// Adjustment records what the context changed.
type Adjustment struct {
	TopicContinued   bool    `json:"topicContinued"`
	EmotionInherited bool    `json:"emotionInherited"`
	Confidence       float64 `json:"confidence"`
	Emotion          string  `json:"emotion"`
}

// Service detects emotion and applies conversation context to an analysis.
type Service struct {
	cfg Config
	log *zap.Logger
}

// NewService creates the context service. Zero tuning values use defaults.
func NewService(cfg Config, log *zap.Logger) *Service {
	d := DefaultConfig()
	if cfg.TopicBoost <= 0 {
		cfg.TopicBoost = d.TopicBoost
	}
	if cfg.NeutralFloor <= 0 {
		cfg.NeutralFloor = d.NeutralFloor
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{cfg: cfg, log: log}
}

// Enabled reports whether Adjust changes anything.
func (s *Service) Enabled() bool {
	return s != nil && s.cfg.Enabled
}

// Detect classifies normalized text into an emotion label and score.
func (s *Service) Detect(normalized string) (string, float64) {
	decision := analysis.Detect(normalized)
	return string(decision.Emotion), decision.Score
}

// Adjust biases a with the conversation: a continued topic raises confidence
// by TopicBoost (capped at 1), and a neutral query inherits the most recent
// non-neutral emotion with confidence floored at NeutralFloor.
func (s *Service) Adjust(conv *chat.Conversation, a *query.Analysis) Adjustment {
	if a == nil {
		return Adjustment{}
	}
	result := Adjustment{Confidence: a.Confidence, Emotion: a.DetectedEmotion}
	if !s.Enabled() || conv == nil {
		return result
	}

	if conv.HasDiscussedTopic(a.Keywords) {
		a.Confidence += s.cfg.TopicBoost
		if a.Confidence > 1 {
			a.Confidence = 1
		}
		result.TopicContinued = true
	}

	if a.DetectedEmotion == string(analysis.Neutral) {
		if recent, ok := conv.MostRecentEmotion(); ok {
			a.DetectedEmotion = recent
			if a.Confidence < s.cfg.NeutralFloor {
				a.Confidence = s.cfg.NeutralFloor
			}
			result.EmotionInherited = true
		}
	}

	result.Confidence = a.Confidence
	result.Emotion = a.DetectedEmotion

	if result.TopicContinued || result.EmotionInherited {
		s.log.Debug("applied conversation context",
			zap.Bool("topic_continued", result.TopicContinued),
			zap.Bool("emotion_inherited", result.EmotionInherited),
			zap.String("emotion", result.Emotion),
			zap.Float64("confidence", result.Confidence))
	}
	return result
}
