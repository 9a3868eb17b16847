package anon

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"anonbot/model"
	"anonbot/transport"
)

const (
	colorPublic = 0x3498DB // blue for the anonymous post
	colorAudit  = 0xE67E22 // orange for the audit record
)

// Relay turns a confirmed submission into a public anonymous post plus an
// unredacted audit record.
type Relay struct {
	tr             transport.Transport
	anonChannelID  string
	auditChannelID string
	log            *slog.Logger
}

// NewRelay builds a relay targeting the given destination channels.
func NewRelay(tr transport.Transport, anonChannelID, auditChannelID string, log *slog.Logger) *Relay {
	return &Relay{
		tr:             tr,
		anonChannelID:  anonChannelID,
		auditChannelID: auditChannelID,
		log:            log,
	}
}

// Run executes the relay pipeline for a confirmed session: fetch
// attachments, post the surviving content anonymously, report the result on
// the prompt, and mirror an audit record. Each failure class resolves to
// exactly one submitter-visible outcome; anything unanticipated is caught
// here and surfaced as a generic failure.
func (r *Relay) Run(s *Session) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("unexpected error during relay",
				"session_id", s.ID, "panic", rec)
			if s.Submission.Finalize(model.OutcomeFailed, fmt.Sprintf("unexpected error: %v", rec)) {
				s.editPrompt("Failed to post due to an unexpected error. Admin has been notified.", true)
			}
		}
	}()

	sub := s.Submission
	payloads, notices := fetchAll(r.tr, sub.Attachments, r.log)
	for _, notice := range notices {
		s.notifySubmitter(notice)
	}

	if sub.Text == "" && len(payloads) == 0 {
		sub.Finalize(model.OutcomeFailed, "empty after attachment failures")
		s.editPrompt("Your message was empty or attachments could not be processed. Nothing was posted.", true)
		return
	}

	out := &transport.Outgoing{Files: payloads}
	if sub.Text != "" {
		out.Embed = &discordgo.MessageEmbed{
			Description: sub.Text,
			Color:       colorPublic,
		}
	}

	posted, err := r.tr.SendMessage(r.anonChannelID, out)
	if err != nil {
		sub.Finalize(model.OutcomeFailed, err.Error())
		switch {
		case transport.IsUnknownChannel(err):
			r.log.Error("anonymous channel not found",
				"channel_id", r.anonChannelID, "error", err)
			s.editPrompt("Failed to post: Anonymous channel not configured correctly. Admin notified.", true)
		case transport.IsPermissionDenied(err):
			r.log.Error("missing permissions in anonymous channel",
				"channel_id", r.anonChannelID, "error", err)
			s.editPrompt("Failed to post. Bot permission error in the anonymous channel. Admin notified.", true)
		default:
			r.log.Error("failed to send anonymous post",
				"channel_id", r.anonChannelID, "error", err)
			s.editPrompt("Failed to post. A network error occurred. Please try again.", true)
		}
		return
	}

	channelName := r.channelName(r.anonChannelID)
	sub.Finalize(model.OutcomePosted, "")
	s.editPrompt(fmt.Sprintf("Your message has been posted anonymously to #%s!", channelName), true)

	r.sendAudit(s, posted, channelName)
}

// sendAudit mirrors the unredacted submission to the audit channel. Failures
// here are operator-facing only: the anonymous post stands regardless.
func (r *Relay) sendAudit(s *Session, posted *transport.MessageRef, channelName string) {
	sub := s.Submission
	embed := &discordgo.MessageEmbed{
		Title:     "Anonymous Post Logged",
		Color:     colorAudit,
		Timestamp: sub.CreatedAt.Format(time.RFC3339),
		Author: &discordgo.MessageEmbedAuthor{
			Name:    fmt.Sprintf("%s (ID: %s)", sub.AuthorName, sub.AuthorID),
			IconURL: sub.AuthorAvatarURL,
		},
	}

	content := sub.Text
	if content == "" {
		content = "*(No text content)*"
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Original Content",
		Value: content,
	})

	if len(sub.Attachments) > 0 {
		links := make([]string, 0, len(sub.Attachments))
		for i, ref := range sub.Attachments {
			links = append(links, fmt.Sprintf("[Attachment %d](%s) (`%s`)", i+1, ref.URL, ref.Filename))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Original Attachments",
			Value: strings.Join(links, "\n"),
		})
	}

	if posted != nil {
		jumpURL := fmt.Sprintf("https://discord.com/channels/%s/%s/%s",
			posted.GuildID, posted.ChannelID, posted.MessageID)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Posted Message",
			Value: fmt.Sprintf("[Jump to Message](%s) in #%s", jumpURL, channelName),
		})
	} else {
		// The send reported success but returned no handle. Not expected to
		// happen; keep the audit record, just without the jump link.
		r.log.Warn("public post handle missing after successful send",
			"session_id", s.ID)
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Posted to: #%s (Error retrieving jump link)", channelName),
		}
	}

	if _, err := r.tr.SendMessage(r.auditChannelID, &transport.Outgoing{Embed: embed}); err != nil {
		r.log.Error("failed to send audit record",
			"channel_id", r.auditChannelID, "session_id", s.ID, "error", err)
	}
}

func (r *Relay) channelName(channelID string) string {
	name, err := r.tr.ChannelName(channelID)
	if err != nil || name == "" {
		r.log.Warn("could not resolve channel name",
			"channel_id", channelID, "error", err)
		return channelID
	}
	return name
}
