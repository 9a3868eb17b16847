package handler

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Router dispatches component interactions to registered handlers. Custom
// IDs are colon-separated; the first segment selects the handler and the
// remainder is payload for it.
type Router struct {
	componentHandlers map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{
		componentHandlers: make(map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)),
	}
}

// Component registers a handler for a message component custom ID prefix.
func (r *Router) Component(key string, handler func(s *discordgo.Session, i *discordgo.InteractionCreate)) {
	r.componentHandlers[key] = handler
}

// OnInteractionCreate is the main interaction router. It should be
// registered as the primary interaction handler on the Discord session.
func (r *Router) OnInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	customID := i.MessageComponentData().CustomID
	parts := strings.SplitN(customID, ":", 2)
	handlerKey := parts[0]

	if handler, ok := r.componentHandlers[handlerKey]; ok {
		handler(s, i)
	}
}
