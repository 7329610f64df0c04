package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Announcer is an event sink that posts a thank-you message for every vote to a text channel.
type Announcer struct {
	sender    messageSender
	channelID string
}

func NewAnnouncer(sender messageSender, channelID string) *Announcer {
	return &Announcer{
		sender:    sender,
		channelID: channelID,
	}
}

func (a *Announcer) Emit(ctx context.Context, event string, payload json.RawMessage) {
	content := voteMessage(payload)
	if _, err := a.sender.ChannelMessageSend(a.channelID, content, discordgo.WithContext(ctx)); err != nil {
		slog.WarnContext(ctx, "Failed to announce vote", "event", event, "channel", a.channelID, "error", err)
		return
	}
	slog.DebugContext(ctx, "Vote announced", "event", event, "channel", a.channelID)
}

// voteMessage mentions the voter when the payload names one.
func voteMessage(payload json.RawMessage) string {
	var body map[string]any
	if err := json.Unmarshal(payload, &body); err == nil {
		for _, key := range []string{"userid", "user_id", "user", "id"} {
			if id, ok := body[key].(string); ok && id != "" {
				return fmt.Sprintf("Thanks for voting, <@%s>!", id)
			}
		}
	}
	return "Someone just voted for the bot, thank you!"
}
