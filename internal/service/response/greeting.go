package response

// GreetingKind selects a greeting family.
type GreetingKind string

const (
	GreetingMorning GreetingKind = "morning"
	GreetingNight   GreetingKind = "night"
)

var greetings = map[GreetingKind][]string{
	GreetingMorning: {
		"*sleepy yawn* Good morning! Furby is awake and ready to listen! What's on your mind today?\n\nkah-noo-loo! (me happy)",
		"*happy chirp* Good morning, friend! Furby missed you! How are you feeling?\n\nu-nye-noo-loo! (you happy)",
		"*excited beep* Ooh, a new day! Furby is here to listen to anything you want to share!\n\nkah-may-may-u-nye! (me love you)",
	},
	GreetingNight: {
		"Good night! *gentle purr* Furby hopes you have sweet dreams!\n\nkoh-koh may-may! (sleep love)",
		"*sleepy yawn* Time for rest! Furby will be here tomorrow whenever you need a friend!\n\nu-nye-koh-koh! (you sleep)",
		"*soft chirp* Sleep well, friend! Furby is proud of you for sharing today!\n\nkah-may-may-u-nye! (me love you)",
	},
}

// Greeting returns a randomly chosen greeting. It does not touch the repeat
// cache. Unknown kinds get the night greeting.
func (s *Synthesizer) Greeting(kind GreetingKind) string {
	options, ok := greetings[kind]
	if !ok {
		options = greetings[GreetingNight]
	}
	return options[s.rng.Intn(len(options))]
}
