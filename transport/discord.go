package transport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"anonbot/model"
)

// Discord implements Transport on a discordgo session. Attachment content is
// fetched from the CDN with a plain HTTP client.
type Discord struct {
	session *discordgo.Session
	client  *http.Client
}

// NewDiscord wraps an open discordgo session.
func NewDiscord(session *discordgo.Session) *Discord {
	return &Discord{
		session: session,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// SendMessage sends a message to the given channel.
func (d *Discord) SendMessage(channelID string, out *Outgoing) (*MessageRef, error) {
	send := &discordgo.MessageSend{
		Content:    out.Content,
		Embed:      out.Embed,
		Components: out.Components,
	}
	for _, f := range out.Files {
		send.Files = append(send.Files, &discordgo.File{
			Name:        f.Filename,
			ContentType: f.ContentType,
			Reader:      bytes.NewReader(f.Data),
		})
	}
	msg, err := d.session.ChannelMessageSendComplex(channelID, send)
	if err != nil {
		return nil, err
	}
	return &MessageRef{GuildID: msg.GuildID, ChannelID: msg.ChannelID, MessageID: msg.ID}, nil
}

// EditMessage rewrites a sent message. Editing a removed message yields
// ErrUnknownMessage.
func (d *Discord) EditMessage(ref *MessageRef, edit *Edit) error {
	e := discordgo.NewMessageEdit(ref.ChannelID, ref.MessageID).SetContent(edit.Content)
	if edit.DisableAffordances {
		components := []discordgo.MessageComponent{}
		e.Components = &components
		embeds := []*discordgo.MessageEmbed{}
		e.Embeds = &embeds
	}
	_, err := d.session.ChannelMessageEditComplex(e)
	if hasErrorCode(err, discordgo.ErrCodeUnknownMessage) {
		return fmt.Errorf("%w: %s", ErrUnknownMessage, ref.MessageID)
	}
	return err
}

// FetchAttachment downloads one attachment from the CDN.
func (d *Discord) FetchAttachment(ref model.AttachmentRef) ([]byte, error) {
	resp, err := d.client.Get(ref.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching attachment %q: %w", ref.Filename, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching attachment %q: unexpected status %s", ref.Filename, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading attachment %q: %w", ref.Filename, err)
	}
	return data, nil
}

// ChannelName resolves a channel's display name, preferring the state cache.
func (d *Discord) ChannelName(channelID string) (string, error) {
	if d.session.State != nil {
		if ch, err := d.session.State.Channel(channelID); err == nil {
			return ch.Name, nil
		}
	}
	ch, err := d.session.Channel(channelID)
	if err != nil {
		return "", err
	}
	return ch.Name, nil
}

// IsPermissionDenied reports whether err is a Discord permission failure.
func IsPermissionDenied(err error) bool {
	return hasErrorCode(err, discordgo.ErrCodeMissingPermissions) ||
		hasErrorCode(err, discordgo.ErrCodeMissingAccess)
}

// IsUnknownChannel reports whether err means the target channel does not
// exist or is not visible to the bot.
func IsUnknownChannel(err error) bool {
	return hasErrorCode(err, discordgo.ErrCodeUnknownChannel)
}

func hasErrorCode(err error, code int) bool {
	var rerr *discordgo.RESTError
	if errors.As(err, &rerr) && rerr.Message != nil {
		return rerr.Message.Code == code
	}
	return false
}
