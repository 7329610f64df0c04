package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	voteCommandPrefix  = "!voted"
	voteCommandTimeout = 10 * time.Second
)

type voteChecker interface {
	HasVoted(ctx context.Context, userID string) bool
	HasVotedBatch(ctx context.Context, userIDs []string) []string
}

// voteCommand answers "!voted" for the author and "!voted @a @b" for the mentioned users.
type voteCommand struct {
	votes voteChecker
}

func newVoteCommand(votes voteChecker) *voteCommand {
	return &voteCommand{votes: votes}
}

func (c *voteCommand) handle(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, voteCommandPrefix) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), voteCommandTimeout)
	defer cancel()

	mentioned := make([]string, 0, len(m.Mentions))
	for _, u := range m.Mentions {
		mentioned = append(mentioned, u.ID)
	}

	reply := c.reply(ctx, m.Author.ID, mentioned)
	if _, err := s.ChannelMessageSend(m.ChannelID, reply, discordgo.WithContext(ctx)); err != nil {
		slog.WarnContext(ctx, "Failed to answer vote command", "channel", m.ChannelID, "error", err)
	}
}

func (c *voteCommand) reply(ctx context.Context, authorID string, mentioned []string) string {
	if len(mentioned) == 0 {
		if c.votes.HasVoted(ctx, authorID) {
			return "You have voted recently, thank you!"
		}
		return "You have not voted recently."
	}

	voters := c.votes.HasVotedBatch(ctx, mentioned)
	if len(voters) == 0 {
		return "None of them have voted recently."
	}
	mentions := make([]string, len(voters))
	for i, id := range voters {
		mentions[i] = fmt.Sprintf("<@%s>", id)
	}
	return "Voted recently: " + strings.Join(mentions, ", ")
}

func logVote(ctx context.Context, event string, payload json.RawMessage) {
	slog.InfoContext(ctx, "Vote received", "event", event, "payload", string(payload))
}
