package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pscheid92/blist/internal/domain"
	apperrors "github.com/pscheid92/blist/internal/platform/errors"
)

// VoteQuery answers vote-status questions. Every call fetches the vote window again;
// nothing is cached between calls.
type VoteQuery struct {
	source  domain.VoteSource
	session domain.Session
}

func NewVoteQuery(source domain.VoteSource, session domain.Session) *VoteQuery {
	return &VoteQuery{
		source:  source,
		session: session,
	}
}

// FetchVotes returns the vote window of botID, or of the session's own bot when botID is empty.
// A bot that is not listed yields domain.ErrBotNotListed, never an empty list.
func (q *VoteQuery) FetchVotes(ctx context.Context, botID string) ([]domain.VoteRecord, error) {
	if botID == "" {
		botID = q.session.BotID()
	}
	if botID == "" {
		return nil, domain.ErrMissingIdentity
	}

	list, err := q.source.FetchVotes(ctx, botID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", domain.ErrBotNotListed, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch votes for bot %s: %w", botID, err)
	}

	if list == nil || list.Votes == nil {
		return []domain.VoteRecord{}, nil
	}
	return list.Votes, nil
}

// HasVoted reports whether userID is in the session bot's current vote window.
// Any failure counts as "not voted".
func (q *VoteQuery) HasVoted(ctx context.Context, userID string) bool {
	voters, ok := q.voterSet(ctx)
	if !ok {
		return false
	}
	_, voted := voters[userID]
	return voted
}

// HasVotedBatch returns the members of userIDs found in the vote window, in input order.
// Any failure yields an empty slice.
func (q *VoteQuery) HasVotedBatch(ctx context.Context, userIDs []string) []string {
	voted := make([]string, 0, len(userIDs))
	if len(userIDs) == 0 {
		return voted
	}

	voters, ok := q.voterSet(ctx)
	if !ok {
		return voted
	}

	for _, id := range userIDs {
		if _, found := voters[id]; found {
			voted = append(voted, id)
		}
	}
	return voted
}

func (q *VoteQuery) voterSet(ctx context.Context) (map[string]struct{}, bool) {
	votes, err := q.FetchVotes(ctx, "")
	if err != nil {
		slog.DebugContext(ctx, "Vote lookup failed, treating as not voted", "error", err)
		return nil, false
	}

	voters := make(map[string]struct{}, len(votes))
	for _, v := range votes {
		voters[v.UserID] = struct{}{}
	}
	return voters, true
}
