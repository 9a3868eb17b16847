package anon

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"anonbot/model"
	"anonbot/transport"
)

// fakeTransport records every transport call and lets tests script failures
// per channel or per attachment.
type fakeTransport struct {
	mu           sync.Mutex
	sends        []sentMessage
	edits        []editedMessage
	sendErr      map[string]error // channel ID -> error
	editErr      error
	fetchErr     map[string]error // filename -> error
	channelNames map[string]string
	nextID       int
}

type sentMessage struct {
	channelID string
	out       *transport.Outgoing
}

type editedMessage struct {
	ref  *transport.MessageRef
	edit *transport.Edit
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		sendErr:      make(map[string]error),
		fetchErr:     make(map[string]error),
		channelNames: make(map[string]string),
	}
}

func (f *fakeTransport) SendMessage(channelID string, out *transport.Outgoing) (*transport.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.sendErr[channelID]; err != nil {
		return nil, err
	}
	f.nextID++
	f.sends = append(f.sends, sentMessage{channelID: channelID, out: out})
	return &transport.MessageRef{
		GuildID:   "guild-1",
		ChannelID: channelID,
		MessageID: fmt.Sprintf("msg-%d", f.nextID),
	}, nil
}

func (f *fakeTransport) EditMessage(ref *transport.MessageRef, edit *transport.Edit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editErr != nil {
		return f.editErr
	}
	f.edits = append(f.edits, editedMessage{ref: ref, edit: edit})
	return nil
}

func (f *fakeTransport) FetchAttachment(ref model.AttachmentRef) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fetchErr[ref.Filename]; err != nil {
		return nil, err
	}
	return []byte("content of " + ref.Filename), nil
}

func (f *fakeTransport) ChannelName(channelID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name, ok := f.channelNames[channelID]; ok {
		return name, nil
	}
	return "", errors.New("unknown channel")
}

// sentTo returns every message sent to the given channel.
func (f *fakeTransport) sentTo(channelID string) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMessage
	for _, s := range f.sends {
		if s.channelID == channelID {
			out = append(out, s)
		}
	}
	return out
}

// lastEdit returns the most recent edit, or nil.
func (f *fakeTransport) lastEdit() *editedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.edits) == 0 {
		return nil
	}
	e := f.edits[len(f.edits)-1]
	return &e
}

func (f *fakeTransport) editCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.edits)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
