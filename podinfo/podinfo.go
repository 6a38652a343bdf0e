// Package podinfo resolves the identity of the running container instance: the OS
// hostname (the pod name under Kubernetes) and the IPv4 address it resolves to
// (the pod IP). Values are looked up fresh on every call.
package podinfo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// ErrNoIPv4 is returned when the hostname resolves but has no IPv4 address.
var ErrNoIPv4 = errors.New("hostname has no IPv4 address")

// Identity names the pod serving a request.
type Identity struct {
	Hostname string
	IP       string
}

// Resolver looks up the pod identity.
type Resolver interface {
	Hostname() (string, error)
	Lookup(ctx context.Context) (Identity, error)
}

// OSResolver asks the operating system. The zero value is usable and applies no
// timeout beyond the caller's context.
type OSResolver struct {
	Timeout time.Duration

	// test hooks
	hostnameFn func() (string, error)
	lookupIPFn func(ctx context.Context, network, host string) ([]net.IP, error)
}

// NewOSResolver returns a resolver whose address lookups are bounded by timeout.
func NewOSResolver(timeout time.Duration) *OSResolver {
	return &OSResolver{Timeout: timeout}
}

func (r *OSResolver) Hostname() (string, error) {
	fn := r.hostnameFn
	if fn == nil {
		fn = os.Hostname
	}
	h, err := fn()
	if err != nil {
		return "", fmt.Errorf("get hostname: %w", err)
	}
	return h, nil
}

// Lookup returns the hostname and the first IPv4 address it resolves to.
func (r *OSResolver) Lookup(ctx context.Context) (Identity, error) {
	host, err := r.Hostname()
	if err != nil {
		return Identity{}, err
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	lookup := r.lookupIPFn
	if lookup == nil {
		lookup = net.DefaultResolver.LookupIP
	}
	ips, err := lookup(ctx, "ip4", host)
	if err != nil {
		return Identity{}, fmt.Errorf("resolve %s: %w", host, err)
	}
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return Identity{Hostname: host, IP: v4.String()}, nil
		}
	}
	return Identity{}, fmt.Errorf("resolve %s: %w", host, ErrNoIPv4)
}
