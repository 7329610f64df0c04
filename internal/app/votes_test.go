package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pscheid92/blist/internal/domain"
	apperrors "github.com/pscheid92/blist/internal/platform/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchVotes_DefaultsToSessionBot(t *testing.T) {
	source := &fakeVoteSource{fetchFn: func(_ context.Context, _ string) (*domain.VoteList, error) {
		return votesOf("1", "2"), nil
	}}
	q := NewVoteQuery(source, &fakeSession{botID: "42"})

	votes, err := q.FetchVotes(context.Background(), "")
	require.NoError(t, err)

	assert.Len(t, votes, 2)
	assert.Equal(t, []string{"42"}, source.calls)
}

func TestFetchVotes_ExplicitBotID(t *testing.T) {
	source := &fakeVoteSource{}
	q := NewVoteQuery(source, &fakeSession{botID: "42"})

	_, err := q.FetchVotes(context.Background(), "99")
	require.NoError(t, err)

	assert.Equal(t, []string{"99"}, source.calls)
}

func TestFetchVotes_MissingIdentity(t *testing.T) {
	source := &fakeVoteSource{}
	q := NewVoteQuery(source, &fakeSession{})

	_, err := q.FetchVotes(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrMissingIdentity)
	assert.Zero(t, source.callCount())
}

func TestFetchVotes_IdentityResolvedLazily(t *testing.T) {
	session := &fakeSession{}
	source := &fakeVoteSource{}
	q := NewVoteQuery(source, session)

	_, err := q.FetchVotes(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrMissingIdentity)

	session.connect("42")
	_, err = q.FetchVotes(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, source.calls)
}

func TestFetchVotes_NotListedIsDistinctFromNoVotes(t *testing.T) {
	notListed := &fakeVoteSource{fetchFn: func(_ context.Context, _ string) (*domain.VoteList, error) {
		return nil, apperrors.NotFoundError("bot not found")
	}}
	empty := &fakeVoteSource{fetchFn: func(_ context.Context, _ string) (*domain.VoteList, error) {
		return &domain.VoteList{}, nil
	}}

	_, err := NewVoteQuery(notListed, &fakeSession{botID: "42"}).FetchVotes(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrBotNotListed)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	votes, err := NewVoteQuery(empty, &fakeSession{botID: "42"}).FetchVotes(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, votes)
	assert.Empty(t, votes)
}

func TestFetchVotes_PropagatesOtherFailures(t *testing.T) {
	source := &fakeVoteSource{fetchFn: func(_ context.Context, _ string) (*domain.VoteList, error) {
		return nil, apperrors.UnauthorizedError("denied", 403)
	}}
	q := NewVoteQuery(source, &fakeSession{botID: "42"})

	_, err := q.FetchVotes(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.NotErrorIs(t, err, domain.ErrBotNotListed)
}

func TestHasVoted(t *testing.T) {
	source := &fakeVoteSource{fetchFn: func(_ context.Context, _ string) (*domain.VoteList, error) {
		return votesOf("1", "2", "3"), nil
	}}
	q := NewVoteQuery(source, &fakeSession{botID: "42"})

	assert.True(t, q.HasVoted(context.Background(), "2"))
	assert.False(t, q.HasVoted(context.Background(), "4"))
	assert.False(t, q.HasVoted(context.Background(), ""))
}

func TestHasVoted_FetchesEveryCall(t *testing.T) {
	source := &fakeVoteSource{fetchFn: func(_ context.Context, _ string) (*domain.VoteList, error) {
		return votesOf("1"), nil
	}}
	q := NewVoteQuery(source, &fakeSession{botID: "42"})

	q.HasVoted(context.Background(), "1")
	q.HasVoted(context.Background(), "1")
	q.HasVotedBatch(context.Background(), []string{"1"})

	assert.Equal(t, 3, source.callCount())
}

func TestHasVoted_FailsClosed(t *testing.T) {
	failures := []error{
		apperrors.TransportError("request failed", 0, errors.New("connection refused")),
		apperrors.TransportError("response body is not JSON", 200, nil),
		apperrors.UnauthorizedError("denied", 401),
		apperrors.NotFoundError("bot not found"),
		fmt.Errorf("anything else"),
	}

	for _, failure := range failures {
		t.Run(failure.Error(), func(t *testing.T) {
			source := &fakeVoteSource{fetchFn: func(_ context.Context, _ string) (*domain.VoteList, error) {
				return nil, failure
			}}
			q := NewVoteQuery(source, &fakeSession{botID: "42"})

			assert.NotPanics(t, func() {
				assert.False(t, q.HasVoted(context.Background(), "1"))
				batch := q.HasVotedBatch(context.Background(), []string{"1", "2"})
				assert.NotNil(t, batch)
				assert.Empty(t, batch)
			})
		})
	}
}

func TestHasVoted_MissingIdentityFailsClosed(t *testing.T) {
	source := &fakeVoteSource{}
	q := NewVoteQuery(source, &fakeSession{})

	assert.False(t, q.HasVoted(context.Background(), "1"))
	assert.Empty(t, q.HasVotedBatch(context.Background(), []string{"1"}))
	assert.Zero(t, source.callCount())
}

func TestHasVotedBatch_IntersectionInInputOrder(t *testing.T) {
	tests := []struct {
		name   string
		voters []string
		input  []string
		want   []string
	}{
		{"subset", []string{"1", "2", "3"}, []string{"3", "9", "1"}, []string{"3", "1"}},
		{"none voted", []string{"1"}, []string{"7", "8"}, []string{}},
		{"empty window", nil, []string{"1", "2"}, []string{}},
		{"empty input", []string{"1"}, nil, []string{}},
		{"all voted", []string{"5", "4"}, []string{"4", "5"}, []string{"4", "5"}},
		{"duplicates kept as given", []string{"1"}, []string{"1", "2", "1"}, []string{"1", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &fakeVoteSource{fetchFn: func(_ context.Context, _ string) (*domain.VoteList, error) {
				return votesOf(tt.voters...), nil
			}}
			q := NewVoteQuery(source, &fakeSession{botID: "42"})

			assert.Equal(t, tt.want, q.HasVotedBatch(context.Background(), tt.input))
		})
	}
}

func TestHasVotedBatch_EmptyInputSkipsFetch(t *testing.T) {
	source := &fakeVoteSource{}
	q := NewVoteQuery(source, &fakeSession{botID: "42"})

	assert.Empty(t, q.HasVotedBatch(context.Background(), nil))
	assert.Zero(t, source.callCount())
}
