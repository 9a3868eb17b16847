package model

import (
	"errors"
	"time"
)

// ErrEmptySubmission is returned when a message carries neither text nor
// attachments and therefore has nothing to relay.
var ErrEmptySubmission = errors.New("submission has no text or attachments")

// Choice is the user's decision on a confirmation prompt.
type Choice int

const (
	ChoiceConfirm Choice = iota
	ChoiceCancel
)

// Outcome is the terminal result of a submission. It starts at Pending and
// transitions exactly once.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomePosted
	OutcomeCancelled
	OutcomeTimedOut
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomePosted:
		return "posted"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// AttachmentRef describes one file attached to the original message. It is
// the source of truth for re-fetching the file's content.
type AttachmentRef struct {
	URL         string
	Filename    string
	ContentType string
	Size        int
}

// Submission represents one inbound private message intended for anonymous
// relay, plus its eventual outcome.
type Submission struct {
	AuthorID        string
	AuthorName      string
	AuthorAvatarURL string
	Text            string
	Attachments     []AttachmentRef
	CreatedAt       time.Time

	outcome Outcome
	reason  string
}

// NewSubmission builds a Submission from an inbound message. It rejects
// messages that have neither text nor attachments.
func NewSubmission(authorID, authorName, avatarURL, text string, attachments []AttachmentRef, createdAt time.Time) (*Submission, error) {
	if text == "" && len(attachments) == 0 {
		return nil, ErrEmptySubmission
	}
	return &Submission{
		AuthorID:        authorID,
		AuthorName:      authorName,
		AuthorAvatarURL: avatarURL,
		Text:            text,
		Attachments:     attachments,
		CreatedAt:       createdAt,
	}, nil
}

// Finalize records the terminal outcome. Only the first call takes effect;
// it reports whether this call was the one that applied.
func (s *Submission) Finalize(o Outcome, reason string) bool {
	if s.outcome != OutcomePending || o == OutcomePending {
		return false
	}
	s.outcome = o
	s.reason = reason
	return true
}

// Outcome returns the submission's current outcome.
func (s *Submission) Outcome() Outcome {
	return s.outcome
}

// FailureReason returns the reason recorded with OutcomeFailed, if any.
func (s *Submission) FailureReason() string {
	return s.reason
}
