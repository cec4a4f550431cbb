// Package dnsclient provides an mxlookup.Resolver that queries a configured
// DNS server directly, bypassing the system resolver configuration.
package dnsclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"time"

	"unaliaser/pkg/mxlookup"

	"github.com/miekg/dns"
)

// Options configures a Client.
type Options struct {
	// Server is the host:port of the recursive DNS server to query.
	Server string
	// Net is the transport, "udp" (default), "tcp" or "tcp-tls".
	Net string
	// Timeout bounds a single exchange with the server.
	Timeout time.Duration
}

// Client resolves MX records with github.com/miekg/dns. It is safe for
// concurrent use.
type Client struct {
	client *dns.Client
	server string
}

// LookupMX sends an MX question for domain and returns the answer hosts
// ordered by preference. NXDOMAIN is reported as no records; any other
// non-success rcode is an error. Truncated UDP answers are retried over TCP.
func (c *Client) LookupMX(ctx context.Context, domain string) ([]string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), dns.TypeMX)
	msg.RecursionDesired = true

	in, _, err := c.client.ExchangeContext(ctx, msg, c.server)
	if err != nil {
		return nil, fmt.Errorf("could not query MX records of %s: %w", domain, exchangeError(ctx, err))
	}
	if in.Truncated && c.client.Net != "tcp" {
		tcp := &dns.Client{Net: "tcp", Timeout: c.client.Timeout}
		if in, _, err = tcp.ExchangeContext(ctx, msg, c.server); err != nil {
			return nil, fmt.Errorf("could not query MX records of %s over tcp: %w", domain, exchangeError(ctx, err))
		}
	}

	switch in.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return []string{}, nil
	default:
		return nil, fmt.Errorf("MX query of %s failed: %s", domain, dns.RcodeToString[in.Rcode])
	}

	records := make([]*dns.MX, 0, len(in.Answer))
	for _, rr := range in.Answer {
		if mx, ok := rr.(*dns.MX); ok {
			records = append(records, mx)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Preference < records[j].Preference
	})

	hosts := make([]string, 0, len(records))
	for _, mx := range records {
		if host := mxlookup.NormalizeHost(mx.Mx); host != "" {
			hosts = append(hosts, host)
		}
	}

	return hosts, nil
}

// exchangeError surfaces deadlines as context errors. miekg/dns reports an
// expired deadline, its own or the context's, as a net i/o timeout.
func exchangeError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}

	return err
}

var _ mxlookup.Resolver = (*Client)(nil)

// New returns a Client querying options.Server.
func New(options Options) *Client {
	network := options.Net
	if network == "" {
		network = "udp"
	}

	return &Client{
		client: &dns.Client{Net: network, Timeout: options.Timeout},
		server: options.Server,
	}
}
