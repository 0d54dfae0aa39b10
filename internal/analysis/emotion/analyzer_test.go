package emotion

import "testing"

func TestDetectSadness(t *testing.T) {
	decision := Detect("im feeling really sad and lonely today")
	if decision.Emotion != Sadness {
		t.Fatalf("expected sadness emotion, got %s", decision.Emotion)
	}
	if decision.Matches != 2 {
		t.Fatalf("expected 2 matches, got %d", decision.Matches)
	}
	if decision.Score <= 0 || decision.Score > 1 {
		t.Fatalf("score out of range: %f", decision.Score)
	}
}

func TestDetectNeutral(t *testing.T) {
	for _, in := range []string{"", "xyz random nonsense"} {
		if decision := Detect(in); decision.Emotion != Neutral || decision.Score != 0 {
			t.Fatalf("Detect(%q) = %+v, want neutral", in, decision)
		}
	}
}

func TestDetectMultiWordKeyword(t *testing.T) {
	decision := Detect("i am all mixed up")
	if decision.Emotion != Confusion {
		t.Fatalf("expected confusion, got %s", decision.Emotion)
	}
}

func TestDetectTieKeepsEarlierBucket(t *testing.T) {
	decision := Detect("sad angry")
	if decision.Emotion != Sadness {
		t.Fatalf("expected earlier bucket to win the tie, got %s", decision.Emotion)
	}
}
