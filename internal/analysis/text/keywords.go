package text

import (
	"strings"

	"go.uber.org/zap"
)

const (
	DefaultMaxWords    = 100
	DefaultMaxKeywords = 20
	minKeywordLength   = 3
)

// stopWords are function words that never carry emotional signal.
var stopWords = toSet(
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "your", "yours",
	"yourself", "yourselves", "he", "him", "his", "himself", "she", "her", "hers",
	"herself", "it", "its", "itself", "they", "them", "their", "theirs", "themselves",
	"what", "which", "who", "whom", "this", "that", "these", "those", "am", "is", "are",
	"was", "were", "be", "been", "being", "have", "has", "had", "having", "do", "does",
	"did", "doing", "a", "an", "the", "and", "but", "if", "or", "because", "as", "until",
	"while", "of", "at", "by", "for", "with", "through", "during", "before", "after",
	"above", "below", "up", "down", "in", "out", "on", "off", "over", "under", "again",
	"further", "then", "once", "here", "there", "when", "where", "why", "how", "all",
	"any", "both", "each", "few", "more", "most", "other", "some", "such", "no", "nor",
	"not", "only", "own", "same", "so", "than", "too", "can", "will", "just",
	"should", "now",
)

// domainPhrases are multi-word expressions re-emitted as one underscore-joined
// keyword. Their words may be stop words ("let down").
var domainPhrases = []string{
	"mixed up", "let down", "fed up", "burned out", "burnt out", "stressed out",
	"freaking out", "broken heart", "calling in sick",
	"bicycle quarterly", "alt cycling", "gravel grinding", "tire pressure",
	"rigid mtb", "mountain bike", "bike messenger", "fixed gear", "single speed",
	"path less pedaled", "the radavist", "bike insights",
	"endurance geometry", "aggressive geometry",
}

// Limits caps how much text the extractor looks at and emits.
type Limits struct {
	MaxWords    int `yaml:"max_words"`
	MaxKeywords int `yaml:"max_keywords"`
}

// DefaultLimits returns the documented caps (100 words in, 20 keywords out).
func DefaultLimits() Limits {
	return Limits{MaxWords: DefaultMaxWords, MaxKeywords: DefaultMaxKeywords}
}

// Extractor pulls meaningful keywords out of normalized text.
type Extractor struct {
	limits  Limits
	phrases [][]string
	log     *zap.Logger
}

// NewExtractor builds an extractor with the built-in stop-word and phrase lists.
func NewExtractor(limits Limits, log *zap.Logger) *Extractor {
	if limits.MaxWords <= 0 {
		limits.MaxWords = DefaultMaxWords
	}
	if limits.MaxKeywords <= 0 {
		limits.MaxKeywords = DefaultMaxKeywords
	}
	if log == nil {
		log = zap.NewNop()
	}

	phrases := make([][]string, 0, len(domainPhrases))
	for _, p := range domainPhrases {
		phrases = append(phrases, strings.Fields(p))
	}

	return &Extractor{limits: limits, phrases: phrases, log: log}
}

// Extract returns deduplicated keywords in first-seen order. A phrase token is
// emitted right before the word it starts at.
func (e *Extractor) Extract(normalized string) []string {
	words := strings.Fields(normalized)
	if len(words) == 0 {
		return []string{}
	}
	if len(words) > e.limits.MaxWords {
		e.log.Debug("truncating words considered for keywords",
			zap.Int("words", len(words)), zap.Int("limit", e.limits.MaxWords))
		words = words[:e.limits.MaxWords]
	}

	seen := make(map[string]struct{}, len(words))
	keywords := make([]string, 0, len(words))
	add := func(token string) {
		if _, dup := seen[token]; dup {
			return
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
	}

	for i, word := range words {
		for _, phrase := range e.phrases {
			if hasPrefixWords(words[i:], phrase) {
				add(strings.Join(phrase, "_"))
			}
		}
		if len(word) < minKeywordLength || IsStopWord(word) {
			continue
		}
		add(word)
	}

	if len(keywords) > e.limits.MaxKeywords {
		e.log.Debug("truncating keywords",
			zap.Int("keywords", len(keywords)), zap.Int("limit", e.limits.MaxKeywords))
		keywords = keywords[:e.limits.MaxKeywords]
	}
	return keywords
}

// IsStopWord reports whether w is in the fixed stop-word list.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

func hasPrefixWords(words, prefix []string) bool {
	if len(prefix) > len(words) {
		return false
	}
	for i, p := range prefix {
		if words[i] != p {
			return false
		}
	}
	return true
}

func toSet(items ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
