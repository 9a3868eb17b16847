package bot

import (
	"github.com/bwmarrin/discordgo"

	"anonbot/handler/anon"
	"anonbot/model"
)

// onMessageCreate filters gateway messages down to user DMs and dispatches
// each as an independent submission. Everything after this point runs on the
// submission's own goroutine, so one user's session never blocks another's.
func onMessageCreate(inbound *anon.Inbound) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}
		if m.GuildID != "" {
			// Guild traffic is not submittable; only DMs are.
			return
		}
		go inbound.Submit(inboundFromEvent(m))
	}
}

func inboundFromEvent(m *discordgo.MessageCreate) anon.InboundMessage {
	refs := make([]model.AttachmentRef, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		refs = append(refs, model.AttachmentRef{
			URL:         a.URL,
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Size:        a.Size,
		})
	}
	return anon.InboundMessage{
		MessageID:       m.ID,
		ChannelID:       m.ChannelID,
		AuthorID:        m.Author.ID,
		AuthorName:      m.Author.Username,
		AuthorAvatarURL: m.Author.AvatarURL(""),
		Text:            m.Content,
		Attachments:     refs,
		Timestamp:       m.Timestamp,
	}
}
