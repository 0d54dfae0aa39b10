package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zhouzirui/furby-therapist/internal/analysis/matcher"
	"github.com/zhouzirui/furby-therapist/internal/analysis/text"
	"github.com/zhouzirui/furby-therapist/internal/service/emotion"
	"github.com/zhouzirui/furby-therapist/internal/service/response"
	"github.com/zhouzirui/furby-therapist/pkg/logger"
)

// ErrTuningFile wraps every failure reading the YAML tuning file.
var ErrTuningFile = errors.New("invalid tuning file")

// Config aggregates every setting of the therapist.
type Config struct {
	Corpus  CorpusConfig
	Log     LogConfig
	Session SessionConfig
	Tuning  Tuning
}

// Load reads configuration from the environment and, when FURBY_TUNING_FILE
// is set, overlays the YAML tuning file.
func Load() (*Config, error) {
	corpus, err := loadCorpusConfig()
	if err != nil {
		return nil, err
	}

	logCfg, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	tuning := DefaultTuning()
	if path := strings.TrimSpace(os.Getenv("FURBY_TUNING_FILE")); path != "" {
		if tuning, err = LoadTuningFile(path); err != nil {
			return nil, err
		}
	}
	if session.RepeatTTL > 0 {
		tuning.Response.RepeatTTL = session.RepeatTTL
	}
	tuning.Context.Enabled = tuning.Context.Enabled && session.Stateful

	return &Config{Corpus: corpus, Log: logCfg, Session: session, Tuning: tuning}, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	tuning := DefaultTuning()
	return &Config{
		Log:     LogConfig{Dir: logger.DefaultDir(), Level: "debug", Console: true},
		Session: SessionConfig{Stateful: true},
		Tuning:  tuning,
	}
}

// CorpusConfig selects the response corpus.
type CorpusConfig struct {
	// Path to a JSON corpus. Empty uses the embedded one.
	Path  string
	Bikes bool
}

func loadCorpusConfig() (CorpusConfig, error) {
	bikes, err := parseBoolEnv("FURBY_BIKES", false)
	if err != nil {
		return CorpusConfig{}, err
	}
	return CorpusConfig{
		Path:  strings.TrimSpace(os.Getenv("FURBY_CORPUS_PATH")),
		Bikes: bikes,
	}, nil
}

// LogConfig maps onto logger.Options.
type LogConfig struct {
	Dir     string
	Level   string
	Console bool
}

// Options converts to the logger package options.
func (c LogConfig) Options() logger.Options {
	return logger.Options{Dir: c.Dir, Level: c.Level, Console: c.Console}
}

func loadLogConfig() (LogConfig, error) {
	console, err := parseBoolEnv("FURBY_LOG_CONSOLE", true)
	if err != nil {
		return LogConfig{}, err
	}

	dir := getEnvOrDefault("FURBY_LOG_DIR", logger.DefaultDir())
	if strings.EqualFold(dir, "off") {
		dir = ""
	}

	return LogConfig{
		Dir:     dir,
		Level:   getEnvOrDefault("FURBY_LOG_LEVEL", "debug"),
		Console: console,
	}, nil
}

// SessionConfig controls per-process session behaviour.
type SessionConfig struct {
	Stateful bool
	// Seed for the response randomness; zero seeds from the clock.
	Seed      int64
	RepeatTTL time.Duration
}

func loadSessionConfig() (SessionConfig, error) {
	stateful, err := parseBoolEnv("FURBY_STATEFUL", true)
	if err != nil {
		return SessionConfig{}, err
	}

	seed, err := parseOptionalInt64Env("FURBY_SEED")
	if err != nil {
		return SessionConfig{}, err
	}

	ttl, err := parseOptionalDurationEnv("FURBY_REPEAT_TTL")
	if err != nil {
		return SessionConfig{}, err
	}

	cfg := SessionConfig{Stateful: stateful}
	if seed != nil {
		cfg.Seed = *seed
	}
	if ttl != nil {
		if *ttl < 0 {
			return SessionConfig{}, fmt.Errorf("invalid FURBY_REPEAT_TTL value %q: must not be negative", ttl.String())
		}
		cfg.RepeatTTL = *ttl
	}
	return cfg, nil
}

// Tuning holds the heuristics' constants.
type Tuning struct {
	MaxInputRunes int              `yaml:"max_input_runes"`
	Extractor     text.Limits      `yaml:"extractor"`
	Matcher       matcher.Weights  `yaml:"matcher"`
	Response      response.Options `yaml:"response"`
	Context       emotion.Config   `yaml:"context"`
}

// DefaultTuning returns the stock constants.
func DefaultTuning() Tuning {
	return Tuning{
		MaxInputRunes: text.MaxInputRunes,
		Extractor:     text.DefaultLimits(),
		Matcher:       matcher.DefaultWeights(),
		Response:      response.DefaultOptions(),
		Context:       emotion.DefaultConfig(),
	}
}

// LoadTuningFile reads a YAML tuning file on top of the defaults. Keys that
// are absent keep their default value.
func LoadTuningFile(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("%w: %v", ErrTuningFile, err)
	}
	return ParseTuning(data)
}

// ParseTuning decodes YAML tuning over the defaults and validates it.
func ParseTuning(data []byte) (Tuning, error) {
	tuning := DefaultTuning()
	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return Tuning{}, fmt.Errorf("%w: %v", ErrTuningFile, err)
	}
	if err := tuning.Validate(); err != nil {
		return Tuning{}, err
	}
	return tuning, nil
}

// Validate rejects values the pipeline cannot work with.
func (t Tuning) Validate() error {
	if t.MaxInputRunes <= 0 {
		return fmt.Errorf("%w: max_input_runes must be positive", ErrTuningFile)
	}
	for name, p := range map[string]float64{
		"response.sound_chance":  t.Response.SoundChance,
		"response.phrase_chance": t.Response.PhraseChance,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: %s must be within [0,1], got %v", ErrTuningFile, name, p)
		}
	}
	// constructors downstream treat zero as unset
	for name, v := range map[string]float64{
		"matcher.exact":         t.Matcher.Exact,
		"matcher.partial":       t.Matcher.Partial,
		"matcher.fuzzy":         t.Matcher.Fuzzy,
		"context.topic_boost":   t.Context.TopicBoost,
		"context.neutral_floor": t.Context.NeutralFloor,
	} {
		if v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrTuningFile, name, v)
		}
	}
	for name, v := range map[string]int{
		"extractor.max_words":        t.Extractor.MaxWords,
		"extractor.max_keywords":     t.Extractor.MaxKeywords,
		"matcher.min_containment":    t.Matcher.MinContainment,
		"matcher.max_fuzzy_length":   t.Matcher.MaxFuzzyLength,
		"matcher.max_keyword_length": t.Matcher.MaxKeywordLength,
		"matcher.max_keywords":       t.Matcher.MaxKeywords,
	} {
		if v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrTuningFile, name, v)
		}
	}
	if t.Context.TopicBoost > 1 || t.Context.NeutralFloor > 1 {
		return fmt.Errorf("%w: context values must be at most 1", ErrTuningFile)
	}
	if t.Response.RepeatTTL < 0 {
		return fmt.Errorf("%w: response.repeat_ttl must not be negative", ErrTuningFile)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalInt64Env(key string) (*int64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalDurationEnv(key string) (*time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := time.ParseDuration(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
