package anon

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"anonbot/model"
	"anonbot/transport"
)

// SessionState is the lifecycle state of a confirmation session.
type SessionState int32

const (
	StateAwaitingDecision SessionState = iota
	StateConfirmed
	StateCancelled
	StateExpired
)

func (s SessionState) String() string {
	switch s {
	case StateAwaitingDecision:
		return "awaiting_decision"
	case StateConfirmed:
		return "confirmed"
	case StateCancelled:
		return "cancelled"
	case StateExpired:
		return "expired"
	}
	return "unknown"
}

// Session is the confirmation flow attached to one submission. The
// transition out of StateAwaitingDecision is a compare-and-swap, so a
// last-moment button click and a firing deadline timer cannot both win.
type Session struct {
	ID         string
	Submission *model.Submission

	dmChannelID string
	inboundID   string
	timeout     time.Duration

	state atomic.Int32
	done  chan struct{}

	// mu guards the fields below. The session is reachable through the
	// registry before Present publishes the prompt handle, so decide and
	// expire may read these from other goroutines.
	mu          sync.Mutex
	prompt      *transport.MessageRef
	deadline    time.Time
	timer       *time.Timer
	pendingEdit *transport.Edit

	tr  transport.Transport
	log *slog.Logger
}

// NewSession creates a session for a validated submission. The prompt is not
// sent until Present is called.
func NewSession(sub *model.Submission, dmChannelID, inboundMessageID string, tr transport.Transport, timeout time.Duration, log *slog.Logger) *Session {
	return &Session{
		ID:          uuid.NewString(),
		Submission:  sub,
		dmChannelID: dmChannelID,
		inboundID:   inboundMessageID,
		timeout:     timeout,
		done:        make(chan struct{}),
		tr:          tr,
		log:         log,
	}
}

// submissionKey identifies the inbound message this session is bound to.
func (s *Session) submissionKey() string {
	return s.Submission.AuthorID + ":" + s.inboundID
}

// Present sends the confirmation prompt to the submitter's DM channel and
// arms the deadline timer. If the prompt cannot be sent the session must not
// be used further.
func (s *Session) Present() error {
	content := "Do you want to post the content anonymously?"
	if n := len(s.Submission.Attachments); n > 0 {
		content += fmt.Sprintf("\n(You have %d attachment(s))", n)
	}
	ref, err := s.tr.SendMessage(s.dmChannelID, &transport.Outgoing{
		Content:    content,
		Components: s.promptButtons(),
	})
	if err != nil {
		return fmt.Errorf("sending confirmation prompt: %w", err)
	}

	s.mu.Lock()
	s.prompt = ref
	s.deadline = time.Now().Add(s.timeout)
	if s.State() == StateAwaitingDecision {
		s.timer = time.AfterFunc(s.timeout, s.expire)
	}
	pending := s.pendingEdit
	s.pendingEdit = nil
	s.mu.Unlock()

	// A decision that raced ahead of the prompt send left its edit behind;
	// apply it now that the handle exists.
	if pending != nil {
		s.applyEdit(ref, pending)
	}
	return nil
}

func (s *Session) promptButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Post Anonymously",
					Style:    discordgo.SuccessButton,
					CustomID: fmt.Sprintf("%s:%s", customIDConfirm, s.ID),
					Emoji:    &discordgo.ComponentEmoji{Name: "✅"},
				},
				discordgo.Button{
					Label:    "Cancel",
					Style:    discordgo.DangerButton,
					CustomID: fmt.Sprintf("%s:%s", customIDCancel, s.ID),
					Emoji:    &discordgo.ComponentEmoji{Name: "❌"},
				},
			},
		},
	}
}

// Decide applies the author's choice. Decisions from any other user are
// ignored with no side effects. It reports whether this call won the
// transition out of StateAwaitingDecision.
func (s *Session) Decide(actorID string, choice model.Choice) bool {
	if actorID != s.Submission.AuthorID {
		return false
	}
	switch choice {
	case model.ChoiceConfirm:
		if !s.state.CompareAndSwap(int32(StateAwaitingDecision), int32(StateConfirmed)) {
			return false
		}
		s.stopTimer()
		s.editPrompt("Processing your request...", true)
	case model.ChoiceCancel:
		if !s.state.CompareAndSwap(int32(StateAwaitingDecision), int32(StateCancelled)) {
			return false
		}
		s.stopTimer()
		s.Submission.Finalize(model.OutcomeCancelled, "")
		s.editPrompt("Request cancelled.", true)
	default:
		return false
	}
	close(s.done)
	return true
}

// expire fires from the deadline timer. It loses silently if a decision
// already won.
func (s *Session) expire() {
	if !s.state.CompareAndSwap(int32(StateAwaitingDecision), int32(StateExpired)) {
		return
	}
	s.Submission.Finalize(model.OutcomeTimedOut, "")
	s.editPrompt("This anonymous post request has timed out.", true)
	close(s.done)
}

// Wait blocks until the session leaves StateAwaitingDecision and returns the
// terminal state.
func (s *Session) Wait() SessionState {
	<-s.done
	return s.State()
}

// State returns the session's current state.
func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

func (s *Session) stopTimer() {
	s.mu.Lock()
	t := s.timer
	s.mu.Unlock()
	if t != nil {
		t.Stop()
	}
}

// editPrompt rewrites the decision prompt in place. If the prompt handle has
// not been published yet the edit is parked for Present to apply. Prompts
// that have been removed in the meantime are a no-op; other edit failures
// are logged and swallowed so the session still reaches its terminal state.
func (s *Session) editPrompt(content string, disableAffordances bool) {
	edit := &transport.Edit{
		Content:            content,
		DisableAffordances: disableAffordances,
	}
	s.mu.Lock()
	prompt := s.prompt
	if prompt == nil {
		s.pendingEdit = edit
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.applyEdit(prompt, edit)
}

func (s *Session) applyEdit(prompt *transport.MessageRef, edit *transport.Edit) {
	err := s.tr.EditMessage(prompt, edit)
	if err != nil && !errors.Is(err, transport.ErrUnknownMessage) {
		s.log.Warn("failed to edit confirmation prompt",
			"session_id", s.ID, "error", err)
	}
}

// notifySubmitter sends a standalone notice to the submitter's DM channel.
func (s *Session) notifySubmitter(content string) {
	if _, err := s.tr.SendMessage(s.dmChannelID, &transport.Outgoing{Content: content}); err != nil {
		s.log.Warn("failed to notify submitter",
			"session_id", s.ID, "error", err)
	}
}
