package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/sony/gobreaker"
)

var (
	// ErrResolution means the hostname or its address could not be determined.
	ErrResolution = errors.New("host resolution failed")
	// ErrResolverUnavailable means recent lookups kept failing and the breaker
	// is rejecting calls until it cools down.
	ErrResolverUnavailable = errors.New("resolver unavailable")
)

// Identity is the {host, ip} pair reported for the serving process.
type Identity struct {
	Host string `json:"host"`
	IP   string `json:"ip"`
}

// Resolver is the subset of *net.Resolver used for address lookups.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

type Option func(*HostCollector)

// WithHostname overrides os.Hostname.
func WithHostname(fn func() (string, error)) Option {
	return func(c *HostCollector) { c.hostname = fn }
}

// WithResolver overrides net.DefaultResolver.
func WithResolver(r Resolver) Option {
	return func(c *HostCollector) { c.resolver = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *HostCollector) { c.logger = l }
}

// WithBreaker sets how many consecutive lookup failures open the breaker and
// how long it stays open.
func WithBreaker(failures uint32, openFor time.Duration) Option {
	return func(c *HostCollector) {
		c.failures = failures
		c.openFor = openFor
	}
}

// HostCollector resolves the local hostname and its address on every call.
// Nothing is cached; lookups go through a circuit breaker.
type HostCollector struct {
	hostname func() (string, error)
	resolver Resolver
	logger   *slog.Logger
	failures uint32
	openFor  time.Duration
	breaker  *gobreaker.CircuitBreaker
}

func NewHostCollector(opts ...Option) *HostCollector {
	c := &HostCollector{
		hostname: os.Hostname,
		resolver: net.DefaultResolver,
		logger:   slog.Default(),
		failures: 5,
		openFor:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "host-resolver",
		MaxRequests: 1,
		Timeout:     c.openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= c.failures
		},
		// A caller that went away says nothing about the resolver.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("resolver breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return c
}

func (c *HostCollector) Name() string { return "host" }

func (c *HostCollector) Collect(ctx context.Context) (map[string]any, error) {
	id, err := c.Identity(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"host": id.Host, "ip": id.IP}, nil
}

// Identity resolves the hostname and the address it maps to.
func (c *HostCollector) Identity(ctx context.Context) (Identity, error) {
	host, err := c.hostname()
	if err != nil {
		return Identity{}, fmt.Errorf("%w: hostname: %w", ErrResolution, err)
	}
	if host == "" {
		return Identity{}, fmt.Errorf("%w: empty hostname", ErrResolution)
	}

	v, err := c.breaker.Execute(func() (interface{}, error) {
		addrs, err := c.resolver.LookupIPAddr(ctx, host)
		if err != nil {
			return nil, err
		}
		ip := pickIP(addrs)
		if ip == "" {
			return nil, fmt.Errorf("no addresses for %s", host)
		}
		return ip, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return Identity{}, fmt.Errorf("%w: %w", ErrResolverUnavailable, err)
	}
	if err != nil {
		return Identity{}, fmt.Errorf("%w: lookup %s: %w", ErrResolution, host, err)
	}
	return Identity{Host: host, IP: v.(string)}, nil
}

// pickIP prefers the first IPv4 address and falls back to the first address.
func pickIP(addrs []net.IPAddr) string {
	for _, a := range addrs {
		if v4 := a.IP.To4(); v4 != nil {
			return v4.String()
		}
	}
	for _, a := range addrs {
		if a.IP != nil {
			return a.IP.String()
		}
	}
	return ""
}
