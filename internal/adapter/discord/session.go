// Package discord adapts discordgo sessions to the client's domain.Session and domain.EventSink.
package discord

import (
	"github.com/bwmarrin/discordgo"
)

// Session exposes the bot identity and guild counts of one or more shard sessions.
// Identity is read from the gateway state on every call, so it becomes available once READY arrives.
type Session struct {
	shards []*discordgo.Session
}

// NewSession wraps the given shard sessions. A bot running unsharded passes a single session.
func NewSession(shards ...*discordgo.Session) *Session {
	return &Session{shards: shards}
}

func (s *Session) BotID() string {
	for _, shard := range s.shards {
		if shard == nil || shard.State == nil {
			continue
		}
		shard.State.RLock()
		user := shard.State.User
		shard.State.RUnlock()
		if user != nil && user.ID != "" {
			return user.ID
		}
	}
	return ""
}

// GuildCount sums the guilds cached by every shard.
func (s *Session) GuildCount() int {
	total := 0
	for _, shard := range s.shards {
		if shard == nil || shard.State == nil {
			continue
		}
		shard.State.RLock()
		total += len(shard.State.Guilds)
		shard.State.RUnlock()
	}
	return total
}

// ShardCount reports the gateway shard count, falling back to the number of wrapped sessions.
func (s *Session) ShardCount() int {
	for _, shard := range s.shards {
		if shard != nil && shard.ShardCount > 0 {
			return shard.ShardCount
		}
	}
	return len(s.shards)
}
