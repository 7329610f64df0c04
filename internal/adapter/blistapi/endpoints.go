package blistapi

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/pscheid92/blist/internal/domain"
	apperrors "github.com/pscheid92/blist/internal/platform/errors"
)

// FetchBot returns a bot's public profile. Works without a token.
func (c *Client) FetchBot(ctx context.Context, id string) (*domain.Bot, error) {
	if id == "" {
		return nil, apperrors.ConfigurationError("bot id is required")
	}

	raw, err := c.Get(ctx, "/bot/"+url.PathEscape(id)+"/")
	if err != nil {
		return nil, err
	}

	var bot domain.Bot
	if err := decode(raw, &bot); err != nil {
		return nil, err
	}
	bot.Raw = raw
	return &bot, nil
}

// FetchUser returns a user's public profile. Works without a token.
func (c *Client) FetchUser(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, apperrors.ConfigurationError("user id is required")
	}

	raw, err := c.Get(ctx, "/user/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := decode(raw, &user); err != nil {
		return nil, err
	}
	user.Raw = raw
	return &user, nil
}

// FetchVotes returns the current vote window of botID.
func (c *Client) FetchVotes(ctx context.Context, botID string) (*domain.VoteList, error) {
	if err := c.requireBotScope(botID); err != nil {
		return nil, err
	}

	raw, err := c.Get(ctx, "/bot/"+url.PathEscape(botID)+"/votes")
	if err != nil {
		return nil, err
	}

	var votes domain.VoteList
	if err := decode(raw, &votes); err != nil {
		return nil, err
	}
	return &votes, nil
}

// FetchReviews returns the reviews left on botID's page.
func (c *Client) FetchReviews(ctx context.Context, botID string) (*domain.ReviewList, error) {
	if err := c.requireBotScope(botID); err != nil {
		return nil, err
	}

	raw, err := c.Get(ctx, "/bot/"+url.PathEscape(botID)+"/reviews")
	if err != nil {
		return nil, err
	}

	var reviews domain.ReviewList
	if err := decode(raw, &reviews); err != nil {
		return nil, err
	}
	return &reviews, nil
}

// PatchStats submits server and shard counts for botID.
func (c *Client) PatchStats(ctx context.Context, botID string, stats domain.Stats) error {
	if err := c.requireBotScope(botID); err != nil {
		return err
	}

	_, err := c.Patch(ctx, "/bot/"+url.PathEscape(botID)+"/stats", stats)
	return err
}

func (c *Client) requireBotScope(botID string) error {
	if !c.HasToken() {
		return apperrors.ConfigurationError("api token is required for bot-scoped endpoints")
	}
	if botID == "" {
		return apperrors.ConfigurationError("bot id is required")
	}
	return nil
}

func decode(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return apperrors.TransportError("unexpected response shape", 0, err)
	}
	return nil
}
