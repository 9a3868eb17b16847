package anon

import (
	"errors"
	"log/slog"
	"time"

	"anonbot/model"
	"anonbot/transport"
)

// InboundMessage is one private message as delivered by the gateway.
type InboundMessage struct {
	MessageID       string
	ChannelID       string
	AuthorID        string
	AuthorName      string
	AuthorAvatarURL string
	Text            string
	Attachments     []model.AttachmentRef
	Timestamp       time.Time
}

// Inbound drives the lifecycle of one submission per inbound DM: validation,
// confirmation session, and relay on confirm.
type Inbound struct {
	registry *Registry
	relay    *Relay
	tr       transport.Transport
	timeout  time.Duration
	log      *slog.Logger
}

// NewInbound wires the intake to its registry, relay and transport.
func NewInbound(registry *Registry, relay *Relay, tr transport.Transport, timeout time.Duration, log *slog.Logger) *Inbound {
	return &Inbound{
		registry: registry,
		relay:    relay,
		tr:       tr,
		timeout:  timeout,
		log:      log,
	}
}

// Submit runs the full lifecycle for one inbound private message and returns
// when the submission is finalized. Each call is independent; the bot
// dispatches every inbound DM on its own goroutine, so submissions from
// different users proceed fully in parallel.
func (h *Inbound) Submit(msg InboundMessage) {
	sub, err := model.NewSubmission(msg.AuthorID, msg.AuthorName, msg.AuthorAvatarURL,
		msg.Text, msg.Attachments, msg.Timestamp)
	if err != nil {
		if errors.Is(err, model.ErrEmptySubmission) {
			h.notify(msg.ChannelID, "Your message must contain text or an attachment to be posted.")
		}
		return
	}

	sess := NewSession(sub, msg.ChannelID, msg.MessageID, h.tr, h.timeout, h.log)
	if err := h.registry.Register(sess); err != nil {
		if errors.Is(err, ErrDuplicateSubmission) {
			h.log.Warn("duplicate submission ignored",
				"author_id", msg.AuthorID, "message_id", msg.MessageID)
			h.notify(msg.ChannelID, "This message is already awaiting confirmation.")
		}
		return
	}

	if err := sess.Present(); err != nil {
		h.registry.Unregister(sess)
		h.log.Error("failed to present confirmation prompt",
			"author_id", msg.AuthorID, "error", err)
		h.notify(msg.ChannelID, "Your submission could not be processed. Please try again.")
		return
	}

	state := sess.Wait()
	h.registry.Unregister(sess)

	if state == StateConfirmed {
		h.relay.Run(sess)
	}
	h.log.Info("submission finalized",
		"author_id", msg.AuthorID,
		"session_id", sess.ID,
		"state", state.String(),
		"outcome", sub.Outcome().String())
}

func (h *Inbound) notify(channelID, content string) {
	if _, err := h.tr.SendMessage(channelID, &transport.Outgoing{Content: content}); err != nil {
		h.log.Warn("failed to send notice", "channel_id", channelID, "error", err)
	}
}
