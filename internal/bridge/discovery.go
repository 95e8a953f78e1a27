package bridge

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type bridges advertise.
	ServiceType = "_codewall._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for bridge discovery
	DefaultScanTimeout = 3 * time.Second
)

// Host is a bridge found on the local network.
type Host struct {
	Instance string
	Hostname string
	IP       string
	Port     int

	// Metadata contains the mDNS TXT record data, e.g. "path=/ws".
	Metadata map[string]string

	DiscoveredAt time.Time
}

// String returns a human-readable description of the host.
func (h *Host) String() string {
	return fmt.Sprintf("%s (%s) at %s", h.Instance, h.Hostname, h.Address())
}

// Address returns the host:port to pass to NewClient.
func (h *Host) Address() string {
	return net.JoinHostPort(h.IP, strconv.Itoa(h.Port))
}

// Scanner discovers bridges over mDNS.
type Scanner struct {
	// Timeout is the maximum time to wait for answers
	Timeout time.Duration
}

// NewScanner creates a scanner with the default timeout.
func NewScanner() *Scanner {
	return &Scanner{Timeout: DefaultScanTimeout}
}

// Scan browses for bridges until the timeout or ctx expires.
func (s *Scanner) Scan(ctx context.Context) ([]*Host, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	collected := make(chan []*Host, 1)

	// The resolver closes entries once ctx is done.
	go func() {
		hosts := make([]*Host, 0)
		for entry := range entries {
			if host := parseServiceEntry(entry); host != nil {
				hosts = append(hosts, host)
			}
		}
		collected <- hosts
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	return <-collected, nil
}

// parseServiceEntry converts a zeroconf entry into a Host. Entries without an
// address are skipped.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Host {
	if entry == nil {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	return &Host{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}
