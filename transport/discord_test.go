package transport

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonbot/model"
)

func TestFetchAttachment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			fmt.Fprint(w, "image-bytes")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	d := &Discord{client: srv.Client()}

	data, err := d.FetchAttachment(model.AttachmentRef{URL: srv.URL + "/ok.png", Filename: "ok.png"})
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)

	_, err = d.FetchAttachment(model.AttachmentRef{URL: srv.URL + "/missing.png", Filename: "missing.png"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.png")
}

func TestErrorClassification(t *testing.T) {
	permErr := &discordgo.RESTError{
		Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions},
	}
	accessErr := &discordgo.RESTError{
		Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingAccess},
	}
	chanErr := &discordgo.RESTError{
		Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownChannel},
	}

	assert.True(t, IsPermissionDenied(permErr))
	assert.True(t, IsPermissionDenied(accessErr))
	assert.False(t, IsPermissionDenied(chanErr))
	assert.False(t, IsPermissionDenied(nil))

	assert.True(t, IsUnknownChannel(chanErr))
	assert.False(t, IsUnknownChannel(permErr))

	// Wrapped REST errors still classify.
	wrapped := fmt.Errorf("sending message: %w", permErr)
	assert.True(t, IsPermissionDenied(wrapped))
}
