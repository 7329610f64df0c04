package domain

import (
	"context"
	"encoding/json"
)

// Bot is a bot profile as listed on the remote service.
// Raw keeps the verbatim response for fields not modelled here.
type Bot struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Prefix       string          `json:"prefix"`
	Library      string          `json:"library"`
	ServerCount  int             `json:"server_count"`
	ShardCount   int             `json:"shard_count"`
	MonthlyVotes int             `json:"monthly_votes"`
	TotalVotes   int             `json:"total_votes"`
	Raw          json.RawMessage `json:"-"`
}

// User is a user profile as listed on the remote service.
type User struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Bio      string          `json:"bio"`
	Raw      json.RawMessage `json:"-"`
}

// Review is a single review left on a bot page.
type Review struct {
	Feedback    string `json:"feedback"`
	Recommended bool   `json:"recommended"`
	Time        string `json:"time"`
}

// ReviewList is the body of the reviews endpoint.
type ReviewList struct {
	Reviews []Review `json:"reviews"`
}

// Stats is the usage report submitted for the caller's bot.
type Stats struct {
	ServerCount int `json:"server_count"`
	ShardCount  int `json:"shard_count"`
}

// StatsProvider returns a fresh usage snapshot on every call.
type StatsProvider func() Stats

// StatsSink submits a usage report for a bot.
type StatsSink interface {
	PatchStats(ctx context.Context, botID string, stats Stats) error
}
