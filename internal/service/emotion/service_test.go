package emotion_test

import (
	"math"
	"testing"

	"github.com/zhouzirui/furby-therapist/internal/model/query"
	"github.com/zhouzirui/furby-therapist/internal/service/chat"
	"github.com/zhouzirui/furby-therapist/internal/service/emotion"
)

func TestAdjustBoostsContinuedTopic(t *testing.T) {
	svc := emotion.NewService(emotion.DefaultConfig(), nil)
	conv := chat.NewConversation()
	conv.AddTurn("my exam is stressing me", "anxiety", "breathe", "anxiety")

	a := &query.Analysis{Keywords: []string{"exam"}, DetectedEmotion: "anxiety", Confidence: 0.9}
	adj := svc.Adjust(conv, a)

	if !adj.TopicContinued {
		t.Fatal("expected topic continuation")
	}
	if a.Confidence != 1 {
		t.Fatalf("expected confidence capped at 1, got %f", a.Confidence)
	}
}

func TestAdjustInheritsRecentEmotion(t *testing.T) {
	svc := emotion.NewService(emotion.DefaultConfig(), nil)
	conv := chat.NewConversation()
	conv.AddTurn("so sad", "sadness", "hug", "sadness")
	conv.AddTurn("and angry", "anger", "breathe", "anger")

	a := &query.Analysis{Keywords: []string{"weather"}, DetectedEmotion: "neutral", Confidence: 0.1}
	adj := svc.Adjust(conv, a)

	if !adj.EmotionInherited || a.DetectedEmotion != "anger" {
		t.Fatalf("expected inherited anger, got %+v / %s", adj, a.DetectedEmotion)
	}
	if math.Abs(a.Confidence-0.3) > 1e-9 {
		t.Fatalf("expected confidence floor 0.3, got %f", a.Confidence)
	}
}

func TestAdjustLeavesFreshConversationAlone(t *testing.T) {
	svc := emotion.NewService(emotion.DefaultConfig(), nil)
	conv := chat.NewConversation()

	a := &query.Analysis{Keywords: []string{"hello"}, DetectedEmotion: "neutral", Confidence: 0.1}
	adj := svc.Adjust(conv, a)

	if adj.TopicContinued || adj.EmotionInherited {
		t.Fatalf("unexpected adjustment: %+v", adj)
	}
	if a.DetectedEmotion != "neutral" || a.Confidence != 0.1 {
		t.Fatalf("analysis mutated: %+v", a)
	}
}

func TestAdjustDisabled(t *testing.T) {
	svc := emotion.NewService(emotion.Config{Enabled: false}, nil)
	conv := chat.NewConversation()
	conv.AddTurn("sad", "sadness", "hug", "sadness")

	a := &query.Analysis{DetectedEmotion: "neutral", Confidence: 0.1}
	svc.Adjust(conv, a)
	if a.DetectedEmotion != "neutral" {
		t.Fatal("disabled service should not change the analysis")
	}
}

func TestDetectDelegatesToAnalyzer(t *testing.T) {
	svc := emotion.NewService(emotion.DefaultConfig(), nil)

	label, score := svc.Detect("i am so happy today")
	if label != "happiness" || score <= 0 {
		t.Fatalf("unexpected detection: %s %f", label, score)
	}
}
