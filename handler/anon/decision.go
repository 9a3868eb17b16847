package anon

import (
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"anonbot/handler"
	"anonbot/model"
)

// Custom ID prefixes for the confirmation prompt buttons. The session ID
// follows after the colon.
const (
	customIDConfirm = "confirm_post_anon"
	customIDCancel  = "cancel_post_anon"
)

// RegisterDecisionHandlers wires the confirmation buttons into the
// interaction router.
func RegisterDecisionHandlers(r *handler.Router, registry *Registry, log *slog.Logger) {
	r.Component(customIDConfirm, decisionHandler(registry, model.ChoiceConfirm, log))
	r.Component(customIDCancel, decisionHandler(registry, model.ChoiceCancel, log))
}

// decisionHandler resolves a button click to a session decision. The
// interaction is acknowledged silently either way: late clicks on expired
// prompts and clicks by non-authors must stay inert with no visible error.
func decisionHandler(registry *Registry, choice model.Choice, log *slog.Logger) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		parts := strings.SplitN(i.MessageComponentData().CustomID, ":", 2)
		if len(parts) < 2 {
			return
		}
		sessionID := parts[1]
		actorID := interactionUserID(i)
		if actorID == "" {
			return
		}

		registry.RouteDecision(sessionID, actorID, choice)

		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		})
		if err != nil {
			log.Warn("failed to acknowledge interaction",
				"session_id", sessionID, "error", err)
		}
	}
}

// interactionUserID extracts the acting user's ID. Interactions from DMs
// carry User directly; guild interactions carry it inside Member.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.User != nil {
		return i.User.ID
	}
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	return ""
}
