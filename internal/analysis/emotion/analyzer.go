package emotion

import "strings"

// Label is the coarse emotion attached to a user turn.
type Label string

const (
	Neutral      Label = "neutral"
	Sadness      Label = "sadness"
	Anxiety      Label = "anxiety"
	Anger        Label = "anger"
	Happiness    Label = "happiness"
	Confusion    Label = "confusion"
	Enthusiastic Label = "enthusiastic"
)

// Decision is the detected emotion and how strongly the text supports it.
type Decision struct {
	Emotion Label
	Score   float64
	Matches int
}

type bucket struct {
	label    Label
	keywords []string
}

// keywordBuckets is ordered; on equal scores the earlier bucket wins.
var keywordBuckets = []bucket{
	{Sadness, []string{
		"sad", "depressed", "down", "blue", "unhappy", "miserable", "crying", "cry",
		"tears", "hurt", "pain", "heartbroken", "lonely", "empty", "hopeless",
		"devastated", "grief", "mourning", "loss", "disappointed",
	}},
	{Anxiety, []string{
		"anxious", "worried", "nervous", "scared", "afraid", "fear", "panic", "stress",
		"stressed", "overwhelmed", "tense", "uneasy", "concerned", "frightened",
		"terrified", "paranoid", "restless", "agitated", "jittery", "apprehensive",
	}},
	{Anger, []string{
		"angry", "mad", "furious", "rage", "irritated", "annoyed", "frustrated",
		"pissed", "livid", "outraged", "hostile", "aggressive", "bitter", "resentful",
		"indignant", "enraged", "irate", "incensed", "infuriated",
	}},
	{Happiness, []string{
		"happy", "joy", "joyful", "glad", "cheerful", "excited", "thrilled", "elated",
		"delighted", "pleased", "content", "satisfied", "grateful", "thankful",
		"optimistic", "positive", "upbeat", "ecstatic", "blissful", "euphoric",
	}},
	{Confusion, []string{
		"confused", "lost", "uncertain", "unsure", "puzzled", "bewildered",
		"perplexed", "baffled", "unclear", "mixed up", "disoriented", "conflicted",
		"indecisive", "torn", "questioning", "doubtful", "hesitant",
	}},
	{Enthusiastic, []string{
		"bike", "bicycle", "cycling", "riding", "pedal", "chain", "wheel", "maintenance",
		"cyclist", "ride", "biking", "cycle", "spoke", "tire", "gear", "brake",
		"handlebar", "saddle", "frame", "love", "awesome", "amazing", "fantastic",
	}},
}

// Detect scores normalized text against each emotion bucket. The score is the
// share of distinct words that hit the bucket; no hit means Neutral.
func Detect(normalized string) Decision {
	words := strings.Fields(normalized)
	if len(words) == 0 {
		return Decision{Emotion: Neutral}
	}

	distinct := make(map[string]struct{}, len(words))
	for _, w := range words {
		distinct[w] = struct{}{}
	}
	padded := " " + strings.Join(words, " ") + " "

	best := Decision{Emotion: Neutral}
	for _, b := range keywordBuckets {
		matches := 0
		for _, kw := range b.keywords {
			if strings.Contains(kw, " ") {
				if strings.Contains(padded, " "+kw+" ") {
					matches++
				}
				continue
			}
			if _, ok := distinct[kw]; ok {
				matches++
			}
		}
		if matches == 0 {
			continue
		}

		score := float64(matches) / float64(len(distinct))
		if score > best.Score {
			best = Decision{Emotion: b.label, Score: score, Matches: matches}
		}
	}
	return best
}
