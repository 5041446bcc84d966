package email

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Client delivers rendered messages. *gomail.Client implements it.
type Client interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// ClientFactory builds a fresh Client.
type ClientFactory func() (Client, error)

// TransportCache owns one Client and replaces it once it is older than maxAge
// or when a caller forces a refresh.
type TransportCache struct {
	mu        sync.Mutex
	factory   ClientFactory
	maxAge    time.Duration
	now       func() time.Time
	client    Client
	expiresAt time.Time
}

// NewTransportCache creates an empty cache. A non-positive maxAge builds a new
// client on every call.
func NewTransportCache(factory ClientFactory, maxAge time.Duration) *TransportCache {
	return &TransportCache{factory: factory, maxAge: maxAge, now: time.Now}
}

// GetOrRefresh returns the cached client, building a new one when force is
// set, when none exists yet or when the cached one has expired.
func (c *TransportCache) GetOrRefresh(force bool) (Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !force && c.client != nil && now.Before(c.expiresAt) {
		return c.client, nil
	}

	client, err := c.factory()
	if err != nil {
		return nil, fmt.Errorf("build mail transport: %w", err)
	}
	c.client = client
	c.expiresAt = now.Add(c.maxAge)
	return client, nil
}

// ExpiresAt reports when the cached client goes stale. Zero means no client.
func (c *TransportCache) ExpiresAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiresAt
}

// SMTPClientFactory returns a factory dialing host:port with STARTTLS when
// the server offers it.
func SMTPClientFactory(host string, port int, username, password string) ClientFactory {
	return func() (Client, error) {
		opts := []gomail.Option{
			gomail.WithPort(port),
			gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
			gomail.WithTimeout(60 * time.Second),
			gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
				return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
			}),
		}
		if username != "" {
			opts = append(opts,
				gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
				gomail.WithUsername(username),
				gomail.WithPassword(password),
			)
		}
		client, err := gomail.NewClient(host, opts...)
		if err != nil {
			return nil, fmt.Errorf("smtp client: %w", err)
		}
		return client, nil
	}
}
