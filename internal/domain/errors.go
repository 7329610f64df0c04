package domain

import "errors"

var (
	ErrMissingIdentity   = errors.New("bot identity unavailable: the host session is not connected yet")
	ErrBotNotListed      = errors.New("bot is not listed on blist")
	ErrStatsUnauthorized = errors.New("api token does not match the bot")
	ErrInvalidInterval   = errors.New("autopost interval must be a positive number of minutes")
	ErrAlreadyRunning    = errors.New("autopost is already running")
	ErrNotRunning        = errors.New("autopost is not running")
	ErrAlreadyListening  = errors.New("webhook server is already listening")
	ErrNotListening      = errors.New("webhook server is not listening")
)
