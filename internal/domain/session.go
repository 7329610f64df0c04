package domain

// Session is the host's connected bot session.
// BotID returns "" until the session has connected.
type Session interface {
	BotID() string
	GuildCount() int
	ShardCount() int
}
