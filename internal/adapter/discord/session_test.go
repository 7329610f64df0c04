package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func newShard(userID string, guilds, shardCount int) *discordgo.Session {
	s := &discordgo.Session{State: discordgo.NewState(), ShardCount: shardCount}
	if userID != "" {
		s.State.User = &discordgo.User{ID: userID}
	}
	for i := 0; i < guilds; i++ {
		s.State.Guilds = append(s.State.Guilds, &discordgo.Guild{})
	}
	return s
}

func TestSession_NotConnected(t *testing.T) {
	s := NewSession(newShard("", 0, 0))

	assert.Empty(t, s.BotID())
	assert.Zero(t, s.GuildCount())
	assert.Equal(t, 1, s.ShardCount())
}

func TestSession_SingleShard(t *testing.T) {
	s := NewSession(newShard("42", 100, 0))

	assert.Equal(t, "42", s.BotID())
	assert.Equal(t, 100, s.GuildCount())
	assert.Equal(t, 1, s.ShardCount())
}

func TestSession_ShardedSumsGuilds(t *testing.T) {
	s := NewSession(newShard("", 0, 2), newShard("42", 30, 2))

	assert.Equal(t, "42", s.BotID())
	assert.Equal(t, 30, s.GuildCount())
	assert.Equal(t, 2, s.ShardCount())

	s = NewSession(newShard("42", 10, 2), newShard("42", 15, 2))
	assert.Equal(t, 25, s.GuildCount())
}

func TestSession_IdentityAppearsAfterReady(t *testing.T) {
	shard := newShard("", 0, 0)
	s := NewSession(shard)
	assert.Empty(t, s.BotID())

	shard.State.User = &discordgo.User{ID: "42"}
	assert.Equal(t, "42", s.BotID())
}

func TestSession_NilState(t *testing.T) {
	s := NewSession(&discordgo.Session{})

	assert.Empty(t, s.BotID())
	assert.Zero(t, s.GuildCount())
}
