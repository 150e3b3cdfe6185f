package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/miekg/dns"
	"github.com/pkg/errors"

	"github.com/dropradar/dropstack/config"
	"github.com/dropradar/dropstack/internal/enum"
)

// record types queried per check. All three are issued concurrently and
// awaited together; any answer on any of them proves current registration.
var dnsQueryTypes = []uint16{dns.TypeA, dns.TypeNS, dns.TypeSOA}

type dohAnswer struct {
	Name string `json:"name"`
	Type int    `json:"type"`
	Data string `json:"data"`
}

type dohResponse struct {
	Status int         `json:"Status"`
	Answer []dohAnswer `json:"Answer"`
}

// dnsChecker resolves candidates over DNS-over-HTTPS. SignalRegistered means
// records exist; SignalAvailable means the name has no records, which alone
// never proves availability (parked domains resolve to nothing too).
type dnsChecker struct {
	dohURL string
	client *http.Client
}

func NewDNSChecker(cfg *config.ValidationConfig) *dnsChecker {
	return &dnsChecker{
		dohURL: cfg.DohURL,
		client: &http.Client{
			Timeout: time.Duration(cfg.DNSTimeoutSeconds) * time.Second,
		},
	}
}

func (c *dnsChecker) Name() string {
	return "dns"
}

func (c *dnsChecker) Check(ctx context.Context, domain string) (enum.Signal, error) {
	type queryResult struct {
		answers int
		err     error
	}

	results := make([]queryResult, len(dnsQueryTypes))
	var wg sync.WaitGroup
	for i, qtype := range dnsQueryTypes {
		wg.Add(1)
		go func(i int, qtype uint16) {
			defer wg.Done()
			answers, err := c.resolve(ctx, domain, qtype)
			results[i] = queryResult{answers: answers, err: err}
		}(i, qtype)
	}
	wg.Wait()

	resolved := false
	var firstErr error
	for _, r := range results {
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
		if r.answers > 0 {
			resolved = true
		}
	}

	// a single positive answer outranks errors on the sibling queries
	if resolved {
		return enum.SignalRegistered, nil
	}
	if firstErr != nil {
		return enum.SignalUnknown, firstErr
	}
	return enum.SignalAvailable, nil
}

func (c *dnsChecker) resolve(ctx context.Context, domain string, qtype uint16) (int, error) {
	url := fmt.Sprintf("%s?name=%s&type=%s", c.dohURL, domain, dns.TypeToString[qtype])
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/dns-json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "doh %s query failed", dns.TypeToString[qtype])
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("doh %s query returned %d", dns.TypeToString[qtype], resp.StatusCode)
	}

	var payload dohResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, errors.Wrap(err, "failed to decode doh response")
	}

	return len(payload.Answer), nil
}
