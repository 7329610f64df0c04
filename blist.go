// Package blist is a client for the blist.xyz bot listing service.
//
// A Client reports the bot's server and shard counts (once or on a schedule), checks whether
// users have voted for the bot, and can run a small webhook listener that forwards vote
// notifications to the host's event sink.
//
//	session := discord.NewSession(dg)
//	client, err := blist.New(session, os.Getenv("BLIST_TOKEN"))
//	if err != nil {
//		return err
//	}
//	if err := client.StartAutopost(0); err != nil {
//		return err
//	}
//	defer client.Close(context.Background())
package blist

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/blist/internal/adapter/blistapi"
	"github.com/pscheid92/blist/internal/adapter/metrics"
	"github.com/pscheid92/blist/internal/adapter/webhook"
	"github.com/pscheid92/blist/internal/app"
	"github.com/pscheid92/blist/internal/domain"
	apperrors "github.com/pscheid92/blist/internal/platform/errors"
	"github.com/pscheid92/blist/internal/platform/version"
)

type (
	Session       = domain.Session
	EventSink     = domain.EventSink
	EventSinkFunc = domain.EventSinkFunc
	Bot           = domain.Bot
	User          = domain.User
	Review        = domain.Review
	VoteRecord    = domain.VoteRecord
	Stats         = domain.Stats
	StatsProvider = domain.StatsProvider
)

const (
	DefaultBaseURL         = blistapi.DefaultBaseURL
	DefaultAutopostMinutes = app.DefaultAutopostMinutes
	DefaultWebhookPort     = webhook.DefaultPort
	DefaultVoteEvent       = domain.DefaultVoteEvent
)

// Error categories, matched with errors.Is.
var (
	ErrConfiguration = apperrors.ErrConfiguration
	ErrUnauthorized  = apperrors.ErrUnauthorized
	ErrNotFound      = apperrors.ErrNotFound
	ErrTransport     = apperrors.ErrTransport

	ErrMissingIdentity   = domain.ErrMissingIdentity
	ErrBotNotListed      = domain.ErrBotNotListed
	ErrStatsUnauthorized = domain.ErrStatsUnauthorized
	ErrInvalidInterval   = domain.ErrInvalidInterval
	ErrAlreadyRunning    = domain.ErrAlreadyRunning
	ErrNotRunning        = domain.ErrNotRunning
	ErrAlreadyListening  = domain.ErrAlreadyListening
	ErrNotListening      = domain.ErrNotListening
)

type options struct {
	baseURL       string
	httpClient    *http.Client
	clock         clockwork.Clock
	registerer    prometheus.Registerer
	onError       func(error)
	sink          EventSink
	statsProvider StatsProvider
}

type Option func(*options)

func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithHTTPClient sets the client used for outbound calls. Its Timeout is the only request timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithClock replaces the wall clock driving autopost.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithMetrics registers the client's Prometheus collectors on reg. Registering two clients on the
// same registerer panics on the duplicate collectors.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithErrorHandler receives every error raised inside an autopost tick.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) { o.onError = fn }
}

// WithEventSink sets the default sink for webhook deliveries.
func WithEventSink(sink EventSink) Option {
	return func(o *options) { o.sink = sink }
}

// WithStatsProvider makes autopost report the provider's counts instead of the session's.
func WithStatsProvider(provider StatsProvider) Option {
	return func(o *options) { o.statsProvider = provider }
}

// WebhookOptions configures StartWebhook. Zero values select the defaults.
type WebhookOptions struct {
	// Path of the POST route, "/" when empty.
	Path string
	// Event name handed to the sink, DefaultVoteEvent when empty.
	Event string
	// Secret the Authorization header must equal. Defaults to the client's API token.
	Secret string
	// Addr overrides the port with a full listen address.
	Addr string
	// Sink receives deliveries. Defaults to the sink set with WithEventSink.
	Sink EventSink
}

type Client struct {
	session       Session
	token         string
	sink          EventSink
	statsProvider StatsProvider

	api        *blistapi.Client
	votes      *app.VoteQuery
	autoposter *app.Autoposter
	webhook    *webhook.Receiver
}

// New creates a client for the bot behind session. The session may still be connecting; its
// identity is only read when a bot-scoped call is made.
func New(session Session, token string, opts ...Option) (*Client, error) {
	if session == nil {
		return nil, apperrors.ConfigurationError("a bot session is required")
	}
	if token == "" {
		return nil, apperrors.ConfigurationError("an api token is required")
	}
	return newClient(session, token, opts...), nil
}

// NewAnonymous creates a client without a token or session. Only FetchBot and FetchUser work.
func NewAnonymous(opts ...Option) *Client {
	return newClient(detachedSession{}, "", opts...)
}

func newClient(session Session, token string, opts ...Option) *Client {
	o := options{
		baseURL: DefaultBaseURL,
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	var set *metrics.Set
	if o.registerer != nil {
		set = metrics.NewSet(o.registerer)
	} else {
		set = &metrics.Set{}
	}

	apiOpts := []blistapi.Option{blistapi.WithBaseURL(o.baseURL), blistapi.WithMetrics(set.API)}
	if o.httpClient != nil {
		apiOpts = append(apiOpts, blistapi.WithHTTPClient(o.httpClient))
	}
	api := blistapi.NewClient(token, apiOpts...)

	return &Client{
		session:       session,
		token:         token,
		sink:          o.sink,
		statsProvider: o.statsProvider,
		api:           api,
		votes:         app.NewVoteQuery(api, session),
		autoposter:    app.NewAutoposter(api, session, o.clock, set.Autopost, o.onError),
		webhook:       webhook.NewReceiver(set.Webhook, set.HTTP),
	}
}

// FetchBot looks up a listed bot by id. No token is needed.
func (c *Client) FetchBot(ctx context.Context, id string) (*Bot, error) {
	return c.api.FetchBot(ctx, id)
}

// FetchUser looks up a user profile by id. No token is needed.
func (c *Client) FetchUser(ctx context.Context, id string) (*User, error) {
	return c.api.FetchUser(ctx, id)
}

// FetchVotes returns the current vote window for botID, or for the session's bot when botID is empty.
func (c *Client) FetchVotes(ctx context.Context, botID string) ([]VoteRecord, error) {
	return c.votes.FetchVotes(ctx, botID)
}

// FetchReviews returns the reviews left on botID, or on the session's bot when botID is empty.
func (c *Client) FetchReviews(ctx context.Context, botID string) ([]Review, error) {
	if botID == "" {
		botID = c.session.BotID()
	}
	if botID == "" {
		return nil, ErrMissingIdentity
	}
	list, err := c.api.FetchReviews(ctx, botID)
	if err != nil {
		return nil, err
	}
	if list.Reviews == nil {
		return []Review{}, nil
	}
	return list.Reviews, nil
}

// HasVoted reports whether userID is in the session bot's vote window. Any failure yields false.
func (c *Client) HasVoted(ctx context.Context, userID string) bool {
	return c.votes.HasVoted(ctx, userID)
}

// HasVotedBatch returns the userIDs that are in the vote window, in input order. Any failure
// yields an empty slice.
func (c *Client) HasVotedBatch(ctx context.Context, userIDs []string) []string {
	return c.votes.HasVotedBatch(ctx, userIDs)
}

// PostStats reports the bot's counts once. Zero values fall back to the session's counts.
func (c *Client) PostStats(ctx context.Context, servers, shards int) error {
	return c.autoposter.PostStats(ctx, servers, shards)
}

// StartAutopost posts stats every minutes minutes, DefaultAutopostMinutes when zero.
func (c *Client) StartAutopost(minutes int) error {
	if minutes == 0 {
		minutes = DefaultAutopostMinutes
	}
	return c.autoposter.Start(minutes, c.statsProvider)
}

// StopAutopost disarms the schedule. Posts in flight complete.
func (c *Client) StopAutopost() error {
	if !c.autoposter.Stop() {
		return ErrNotRunning
	}
	return nil
}

func (c *Client) AutopostRunning() bool {
	return c.autoposter.Running()
}

// StartWebhook binds the vote listener on port, DefaultWebhookPort when zero. A bind failure is
// returned synchronously.
func (c *Client) StartWebhook(port int, opts WebhookOptions) error {
	secret := opts.Secret
	if secret == "" {
		secret = c.token
	}
	sink := opts.Sink
	if sink == nil {
		sink = c.sink
	}
	return c.webhook.Start(webhook.Options{
		Port:   port,
		Path:   opts.Path,
		Secret: secret,
		Event:  opts.Event,
		Addr:   opts.Addr,
	}, sink)
}

// StopWebhook shuts the listener down and releases its port.
func (c *Client) StopWebhook(ctx context.Context) error {
	return c.webhook.Stop(ctx)
}

// WebhookAddr returns the bound listen address, or "" when not listening.
func (c *Client) WebhookAddr() string {
	return c.webhook.Addr()
}

// Close stops autopost and the webhook listener if either is active.
func (c *Client) Close(ctx context.Context) error {
	c.autoposter.Stop()
	if err := c.webhook.Stop(ctx); err != nil && !errors.Is(err, ErrNotListening) {
		return err
	}
	return nil
}

// Version returns the library version.
func Version() string {
	return version.Version
}

type detachedSession struct{}

func (detachedSession) BotID() string   { return "" }
func (detachedSession) GuildCount() int { return 0 }
func (detachedSession) ShardCount() int { return 0 }
