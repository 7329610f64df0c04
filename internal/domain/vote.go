package domain

import "context"

// VoteRecord is a single vote in the remote service's current vote window.
type VoteRecord struct {
	UserID    string `json:"userid"`
	Timestamp string `json:"timestamp"`
}

// VoteList is the body of the votes endpoint.
type VoteList struct {
	Votes []VoteRecord `json:"votes"`
}

// VoteSource fetches the vote window for a bot.
type VoteSource interface {
	FetchVotes(ctx context.Context, botID string) (*VoteList, error)
}
