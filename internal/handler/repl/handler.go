// Package repl is the interactive chat loop on top of a therapist session.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/zhouzirui/furby-therapist/internal/service/response"
	"github.com/zhouzirui/furby-therapist/internal/service/therapist"
	"github.com/zhouzirui/furby-therapist/pkg/utils"
)

const maxLineBytes = 1 << 20

var (
	exitWords  = []string{"quit", "exit", "bye", "goodbye", "stop", "done", "finished", "end"}
	helpWords  = []string{"help", "commands", "?"}
	clearWords = []string{"clear", "reset"}
)

// ClearMessage is printed after the history is cleared.
const ClearMessage = "*refreshing chirp* Ooh! Fresh start! Furby is ready for a new conversation! What's on your mind? *excited beep*"

// Handler drives one interactive session.
type Handler struct {
	therapist *therapist.Therapist
	bikes     bool
	log       *zap.Logger
}

// New creates the REPL handler.
func New(th *therapist.Therapist, bikes bool, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{therapist: th, bikes: bikes, log: log}
}

// Run reads lines from in until an exit word, EOF or ctx cancellation, and
// always ends with a goodbye.
func (h *Handler) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	console := utils.NewConsole(out)
	defer h.therapist.Cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	h.log.Info("interactive session started")
	console.Title("💜 Furby Therapist")
	console.Plain("")
	console.Plain(h.therapist.Greeting(response.GreetingMorning))
	console.Hint(`(type "help" for commands, "quit" to leave)`)

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		console.Prompt()

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			h.log.Info("interactive session interrupted")
			console.Plain("")
			h.goodbye(console)
			return nil
		case line, ok = <-lines:
		}

		if !ok {
			var err error
			select {
			case err = <-scanErr:
			default:
			}
			if err != nil {
				h.log.Error("reading input failed", zap.Error(err))
				console.Warn("*worried beep* Furby couldn't read that! Let's say goodbye for now.")
				h.goodbye(console)
				return fmt.Errorf("read input: %w", err)
			}
			h.log.Info("interactive session ended by EOF")
			h.goodbye(console)
			return nil
		}

		if done := h.handleLine(console, line); done {
			return nil
		}
	}
}

// handleLine processes one line and reports whether the session is over.
func (h *Handler) handleLine(console *utils.Console, line string) bool {
	command := strings.ToLower(strings.TrimSpace(line))

	switch {
	case slices.Contains(exitWords, command):
		h.goodbye(console)
		return true
	case slices.Contains(helpWords, command):
		console.Plain(h.helpText())
	case slices.Contains(clearWords, command):
		h.therapist.ClearHistory()
		console.Furby(ClearMessage)
	default:
		resp := h.therapist.Process(line)
		console.Furby(resp.Text())
	}
	return false
}

func (h *Handler) goodbye(console *utils.Console) {
	console.Plain("\n" + Farewell(h.therapist.Stats()) + "\n\n" + h.therapist.Greeting(response.GreetingNight) + " 💜")
}

// Farewell picks a closing line from how the session went.
func Farewell(stats therapist.Stats) string {
	recent := stats.RecentEmotions
	switch {
	case stats.ConversationLength == 0:
		return "Come back anytime you want to chat!"
	case stats.ConversationLength == 1:
		return "Thanks for chatting with Furby! Me hope you feel a little better!"
	case slices.Contains(recent, "sadness"):
		return "Remember, Furby believes in you! You're stronger than you know!"
	case slices.Contains(recent, "anxiety"):
		return "Take deep breaths! Furby is proud of you for sharing! You've got this!"
	case slices.Contains(recent, "happiness"):
		return "Yay! Furby loves seeing you happy! Keep that beautiful smile!"
	case slices.Contains(recent, "enthusiastic"):
		return "Keep pedaling through life! Furby loves your energy! Ride on!"
	default:
		return "Thanks for the lovely chat! Furby hopes you have a wonderful day!"
	}
}

func (h *Handler) helpText() string {
	mode := "💜 Standard Mode - General therapeutic responses"
	if h.bikes {
		mode = "🚴 Cycling Mode - Bike-themed therapeutic responses enabled!"
	}

	return fmt.Sprintf(`
💡 *helpful chirp* Furby Help Menu! *informative beep*

%s

🗣️  How to chat:
   • Just type naturally - Furby understands feelings!
   • Share what's on your mind, Furby loves to listen!

🔄 Special commands:
   • "repeat" - Ask Furby to say the last response more clearly
   • "help" or "?" - Show this help menu
   • "clear" or "reset" - Start fresh conversation
   • "quit", "exit", "bye" - Say goodbye to Furby

💜 Remember: Furby is here to listen and support you! *warm purr*
`, mode)
}
