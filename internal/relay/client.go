package relay

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sigil/internal/domain"
)

const defaultHandshakeTimeout = 10 * time.Second

// Client publishes events to a single relay.
type Client struct {
	url    string
	dialer *websocket.Dialer
	log    *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithDialer replaces the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) {
		if d != nil {
			c.dialer = d
		}
	}
}

// NewClient returns a Client for a ws:// or wss:// relay URL.
func NewClient(rawURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: relay url: %v", domain.ErrValidation, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("%w: relay url %q must use ws or wss", domain.ErrValidation, rawURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: relay url %q has no host", domain.ErrValidation, rawURL)
	}

	c := &Client{
		url:    u.String(),
		dialer: &websocket.Dialer{HandshakeTimeout: defaultHandshakeTimeout},
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL returns the relay address.
func (c *Client) URL() string { return c.url }

// Publish sends ev and waits for the relay's OK. A rejection is reported in
// the result, not as an error. ctx bounds the whole exchange.
func (c *Client) Publish(ctx context.Context, ev domain.SignedEvent) (res domain.PublishResult, err error) {
	frame, err := EncodeEvent(ev)
	if err != nil {
		return domain.PublishResult{}, err
	}

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return domain.PublishResult{}, fmt.Errorf("dial %s: %w", c.url, err)
	}
	defer func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		err = multierr.Append(err, conn.Close())
	}()

	// Expiring the socket unblocks any pending read or write once ctx is done.
	stop := context.AfterFunc(ctx, func() { _ = conn.UnderlyingConn().SetDeadline(time.Now()) })
	defer stop()

	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return domain.PublishResult{}, fmt.Errorf("send event %s: %w", ev.ID, withCtxErr(ctx, err))
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return domain.PublishResult{}, fmt.Errorf("await OK for %s: %w", ev.ID, withCtxErr(ctx, err))
		}
		msg, err := ParseMessage(data)
		if err != nil {
			c.log.Debug("skipping relay frame", zap.Error(err))
			continue
		}
		switch msg.Type {
		case TypeOK:
			if msg.EventID != ev.ID {
				return domain.PublishResult{}, fmt.Errorf("%w: sent %s, got %s", ErrIDMismatch, ev.ID, msg.EventID)
			}
			res = domain.PublishResult{EventID: msg.EventID, Accepted: msg.Accepted, Message: msg.Text}
			c.log.Info("relay answered",
				zap.String("relay", c.url),
				zap.String("event_id", res.EventID),
				zap.Bool("accepted", res.Accepted),
				zap.String("message", res.Message))
			return res, nil
		case TypeNotice:
			c.log.Info("relay notice", zap.String("relay", c.url), zap.String("text", msg.Text))
		default:
			c.log.Debug("ignoring relay frame", zap.String("type", msg.Type))
		}
	}
}

// withCtxErr prefers the context's error over the network error it caused.
func withCtxErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return multierr.Combine(ctxErr, err)
	}
	return err
}

// Compile-time assertion that Client implements domain.RelayClient.
var _ domain.RelayClient = (*Client)(nil)
