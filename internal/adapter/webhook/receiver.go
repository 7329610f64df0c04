// Package webhook runs the inbound listener that receives vote notifications from the listing
// service and re-emits them to the host.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/blist/internal/adapter/metrics"
	"github.com/pscheid92/blist/internal/domain"
	apperrors "github.com/pscheid92/blist/internal/platform/errors"
)

const DefaultPort = 8000

// Options configures a listener. Zero values select the defaults.
type Options struct {
	// Port to listen on, DefaultPort when zero.
	Port int
	// Path of the POST route. Empty means "/".
	Path string
	// Secret the Authorization header must match exactly.
	Secret string
	// Event name passed to the sink, domain.DefaultVoteEvent when empty.
	Event string
	// Addr overrides Port with a full listen address such as "127.0.0.1:0".
	Addr string
}

func (o Options) withDefaults() Options {
	if o.Port == 0 {
		o.Port = DefaultPort
	}
	if o.Event == "" {
		o.Event = domain.DefaultVoteEvent
	}
	o.Path = "/" + strings.TrimPrefix(o.Path, "/")
	return o
}

func (o Options) address() string {
	if o.Addr != "" {
		return o.Addr
	}
	return ":" + strconv.Itoa(o.Port)
}

// Receiver owns at most one bound listener at a time.
type Receiver struct {
	webhookMetrics *metrics.WebhookMetrics
	httpMetrics    *metrics.HTTPMetrics

	mu       sync.Mutex
	echo     *echo.Echo
	listener net.Listener
}

// NewReceiver creates a stopped receiver. Both metric sets may be nil.
func NewReceiver(webhookMetrics *metrics.WebhookMetrics, httpMetrics *metrics.HTTPMetrics) *Receiver {
	return &Receiver{
		webhookMetrics: webhookMetrics,
		httpMetrics:    httpMetrics,
	}
}

// Start binds the listen address and serves in the background. A bind failure is returned
// and leaves the receiver stopped.
func (r *Receiver) Start(opts Options, sink domain.EventSink) error {
	if opts.Secret == "" {
		return apperrors.ConfigurationError("webhook secret is required")
	}
	if sink == nil {
		return apperrors.ConfigurationError("event sink is required")
	}
	opts = opts.withDefaults()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.echo != nil {
		return domain.ErrAlreadyListening
	}

	ln, err := net.Listen("tcp", opts.address())
	if err != nil {
		return fmt.Errorf("failed to bind webhook listener on %s: %w", opts.address(), err)
	}

	e := r.newEcho(opts, sink)
	e.Listener = ln

	go func() {
		if err := e.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Webhook listener stopped unexpectedly", "addr", ln.Addr().String(), "error", err)
		}
	}()

	r.echo = e
	r.listener = ln
	r.webhookMetrics.SetListening(true)
	slog.Info("Webhook listening", "addr", ln.Addr().String(), "path", opts.Path, "event", opts.Event)
	return nil
}

// Stop shuts the listener down gracefully and releases the port.
func (r *Receiver) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.echo == nil {
		return domain.ErrNotListening
	}

	addr := r.listener.Addr().String()
	err := r.echo.Shutdown(ctx)
	_ = r.listener.Close()

	r.echo = nil
	r.listener = nil
	r.webhookMetrics.SetListening(false)
	slog.Info("Webhook stopped", "addr", addr)

	if err != nil {
		return fmt.Errorf("failed to shutdown webhook listener: %w", err)
	}
	return nil
}

// Listening reports whether a listener is currently bound.
func (r *Receiver) Listening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.echo != nil
}

// Addr returns the bound address, or "" when stopped.
func (r *Receiver) Addr() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener == nil {
		return ""
	}
	return r.listener.Addr().String()
}
