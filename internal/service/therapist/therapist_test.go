package therapist_test

import (
	"strings"
	"testing"

	"github.com/zhouzirui/furby-therapist/internal/config"
	"github.com/zhouzirui/furby-therapist/internal/model/category"
	"github.com/zhouzirui/furby-therapist/internal/model/query"
	"github.com/zhouzirui/furby-therapist/internal/service/response"
	"github.com/zhouzirui/furby-therapist/internal/service/therapist"
)

// plainRand never decorates and always picks the first option.
type plainRand struct{}

func (plainRand) Float64() float64 { return 0.99 }
func (plainRand) Intn(int) int     { return 0 }

func newTherapist(t *testing.T, bikes bool, opts ...therapist.Option) *therapist.Therapist {
	t.Helper()
	table, err := category.LoadDefault(bikes)
	if err != nil {
		t.Fatalf("LoadDefault err: %v", err)
	}
	cfg := config.Default()
	cfg.Corpus.Bikes = bikes
	return therapist.New(table, cfg, nil, append([]therapist.Option{therapist.WithRand(plainRand{})}, opts...)...)
}

func TestProcessSadScenario(t *testing.T) {
	th := newTherapist(t, false)

	result := th.ProcessDetailed("I'm feeling really sad and lonely today")
	if result.Analysis == nil {
		t.Fatal("expected analysis")
	}
	a := result.Analysis
	if a.NormalizedText != "im feeling really sad and lonely today" {
		t.Fatalf("unexpected normalized text %q", a.NormalizedText)
	}
	if !contains(a.Keywords, "sad") || !contains(a.Keywords, "lonely") {
		t.Fatalf("expected sad and lonely in keywords, got %v", a.Keywords)
	}
	if a.Category != "sadness" || a.Confidence <= 0 {
		t.Fatalf("unexpected match %s %f", a.Category, a.Confidence)
	}
	if a.DetectedEmotion != "sadness" {
		t.Fatalf("unexpected emotion %s", a.DetectedEmotion)
	}
	if result.Response.Kind != query.KindCategory || result.Response.Category != "sadness" {
		t.Fatalf("unexpected response %+v", result.Response)
	}
	if strings.Contains(result.Response.CleanOutput, "*") {
		t.Fatalf("clean output has markers: %q", result.Response.CleanOutput)
	}
}

func TestProcessNonsenseFallsBack(t *testing.T) {
	th := newTherapist(t, false)

	result := th.ProcessDetailed("xyz random nonsense")
	if result.Analysis.Category != category.FallbackName || result.Analysis.Confidence != 0.1 {
		t.Fatalf("unexpected match %+v", result.Analysis)
	}
	if result.Response.Category != category.FallbackName {
		t.Fatalf("expected fallback response, got %s", result.Response.Category)
	}
}

func TestProcessEmptyInputEscalates(t *testing.T) {
	th := newTherapist(t, false)
	fallback := th.Process("xyz random nonsense")

	var seen []string
	for i := 0; i < 4; i++ {
		resp := th.Process("   ")
		if resp.Kind != query.KindEmptyInput {
			t.Fatalf("expected empty input response, got %s", resp.Kind)
		}
		if resp.Text() == fallback.Text() {
			t.Fatal("empty input reply must differ from the fallback category reply")
		}
		seen = append(seen, resp.Text())
	}

	if seen[0] == seen[1] || seen[1] == seen[2] {
		t.Fatalf("expected escalating replies, got %v", seen)
	}
	if seen[2] != seen[3] {
		t.Fatalf("expected escalation to stop at the last reply, got %v", seen)
	}

	th.Process("hello")
	if again := th.Process(""); again.Text() != seen[0] {
		t.Fatalf("expected escalation to reset after real input, got %q", again.Text())
	}
}

func TestProcessRepeat(t *testing.T) {
	th := newTherapist(t, false)

	first := th.Process("repeat")
	if first.Kind != query.KindNothingToRepeat {
		t.Fatalf("expected nothing-to-repeat, got %s", first.Kind)
	}
	if first.CleanOutput != therapist.NothingToRepeatClean {
		t.Fatalf("unexpected clean text %q", first.CleanOutput)
	}

	answer := th.Process("I am so worried about my exam")
	again := th.Process("say that again?")
	if again.Kind != query.KindRepeat {
		t.Fatalf("expected repeat, got %s", again.Kind)
	}
	if again.Text() != answer.CleanOutput || again.Phrase != nil {
		t.Fatalf("repeat should be the clean prior reply: %+v vs %+v", again, answer)
	}
	if strings.Contains(again.Text(), "*") {
		t.Fatalf("repeat must not carry sound markers: %q", again.Text())
	}
}

func TestProcessRejectsInvalidInput(t *testing.T) {
	th := newTherapist(t, false)

	for _, in := range []string{"<script>alert(1)</script>", strings.Repeat("a", 1001)} {
		resp := th.Process(in)
		if resp.Kind != query.KindInvalidInput {
			t.Fatalf("expected invalid input for %.20q, got %s", in, resp.Kind)
		}
		if resp.Text() == "" || strings.Contains(resp.CleanOutput, "*") {
			t.Fatalf("bad invalid-input reply %+v", resp)
		}
	}
	if th.HasCached() {
		t.Fatal("rejected input must not reach the repeat cache")
	}
}

func TestStatefulContextCarriesEmotion(t *testing.T) {
	th := newTherapist(t, false)

	th.Process("I am so sad")
	result := th.ProcessDetailed("what about the weather")
	if result.Analysis.DetectedEmotion != "sadness" {
		t.Fatalf("expected inherited sadness, got %s", result.Analysis.DetectedEmotion)
	}
	if result.Context == nil || !result.Context.EmotionInherited || result.Context.Emotion != "sadness" {
		t.Fatalf("expected the inherited emotion in the context adjustment, got %+v", result.Context)
	}
	if result.Context.Confidence < 0.3 {
		t.Fatalf("expected confidence floored at 0.3, got %f", result.Context.Confidence)
	}

	stats := th.Stats()
	if !stats.Stateful || stats.ConversationLength != 2 || stats.SessionID == "" {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if len(stats.RecentEmotions) != 2 || stats.RecentEmotions[0] != "sadness" {
		t.Fatalf("unexpected recent emotions %v", stats.RecentEmotions)
	}
	if stats.LastCategory != result.Analysis.Category {
		t.Fatalf("expected last category %s, got %s", result.Analysis.Category, stats.LastCategory)
	}

	th.ClearHistory()
	if stats := th.Stats(); stats.ConversationLength != 0 || len(stats.RecentEmotions) != 0 || stats.LastCategory != "" {
		t.Fatalf("expected cleared history, got %+v", stats)
	}
}

func TestStatelessHasNoContext(t *testing.T) {
	th := newTherapist(t, false, therapist.WithStateful(false))

	th.Process("I am so sad")
	result := th.ProcessDetailed("what about the weather")
	if result.Analysis.DetectedEmotion != "neutral" {
		t.Fatalf("stateless therapist should not inherit emotions, got %s", result.Analysis.DetectedEmotion)
	}
	if result.Context != nil {
		t.Fatalf("stateless therapist should not adjust context, got %+v", result.Context)
	}
	if stats := th.Stats(); stats.Stateful || th.Conversation() != nil {
		t.Fatalf("unexpected stateless stats %+v", stats)
	}
}

func TestProcessSingle(t *testing.T) {
	table, err := category.LoadDefault(false)
	if err != nil {
		t.Fatalf("LoadDefault err: %v", err)
	}

	resp := therapist.ProcessSingle(table, nil, nil, "thank you so much")
	if resp.Category != "gratitude" {
		t.Fatalf("expected gratitude, got %s", resp.Category)
	}
}

func TestBikesCorpus(t *testing.T) {
	th := newTherapist(t, true)

	result := th.ProcessDetailed("I love my gravel bike ride")
	if result.Analysis.Category != "happiness" {
		t.Fatalf("expected happiness, got %s", result.Analysis.Category)
	}
	if !th.Stats().CyclingMode {
		t.Fatal("expected cycling mode in stats")
	}
}

func TestMissingTableUsesEmergencyReply(t *testing.T) {
	th := therapist.New(nil, nil, nil, therapist.WithRand(plainRand{}))

	resp := th.Process("hello there")
	if resp.Kind != query.KindEmergency || resp.CleanOutput != response.EmergencyCleanMessage {
		t.Fatalf("expected emergency reply, got %+v", resp)
	}
}

func TestGreetingsAndCategories(t *testing.T) {
	th := newTherapist(t, false)

	if g := th.Greeting(response.GreetingNight); !strings.Contains(g, "Good night!") {
		t.Fatalf("unexpected night greeting %q", g)
	}
	if g := th.Greeting(response.GreetingMorning); !strings.Contains(g, "Good morning!") {
		t.Fatalf("unexpected morning greeting %q", g)
	}

	names := th.Categories()
	if len(names) == 0 || names[len(names)-1] != category.FallbackName {
		t.Fatalf("unexpected categories %v", names)
	}
	if _, ok := th.Category("sadness"); !ok {
		t.Fatal("expected sadness category")
	}

	th.Process("I am happy")
	th.Cleanup()
	if th.HasCached() {
		t.Fatal("cleanup should clear the repeat cache")
	}
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
