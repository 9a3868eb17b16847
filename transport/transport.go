// Package transport is the boundary to the chat platform. The core packages
// talk to Discord only through the Transport interface so that session and
// relay logic can be exercised against a recording fake.
package transport

import (
	"errors"

	"github.com/bwmarrin/discordgo"

	"anonbot/model"
)

// ErrUnknownMessage reports an edit against a message that no longer exists.
// Callers treat it as a recoverable no-op.
var ErrUnknownMessage = errors.New("message no longer exists")

// MessageRef is a handle to a previously sent message, sufficient to edit it
// or to build a jump link to it.
type MessageRef struct {
	GuildID   string
	ChannelID string
	MessageID string
}

// Upload is one file payload ready for re-upload.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Outgoing is the content of a message to send.
type Outgoing struct {
	Content    string
	Embed      *discordgo.MessageEmbed
	Files      []Upload
	Components []discordgo.MessageComponent
}

// Edit replaces a sent message's content. DisableAffordances removes the
// message's buttons and embeds so no further interaction is possible.
type Edit struct {
	Content            string
	DisableAffordances bool
}

// Transport is the chat-platform contract consumed by the core.
type Transport interface {
	// SendMessage sends to a channel and returns a handle to the new message.
	SendMessage(channelID string, out *Outgoing) (*MessageRef, error)
	// EditMessage rewrites a previously sent message in place. Returns
	// ErrUnknownMessage if the message has been removed.
	EditMessage(ref *MessageRef, edit *Edit) error
	// FetchAttachment retrieves the binary content of one attachment.
	FetchAttachment(ref model.AttachmentRef) ([]byte, error)
	// ChannelName resolves a channel ID to its display name.
	ChannelName(channelID string) (string, error)
}
