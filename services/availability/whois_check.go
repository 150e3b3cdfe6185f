package availability

import (
	"context"
	"io"
	"net"
	"strings"
	"time"

	"github.com/jpillora/backoff"
	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
	"github.com/pkg/errors"

	"github.com/dropradar/dropstack/config"
	"github.com/dropradar/dropstack/internal/enum"
	er "github.com/dropradar/dropstack/internal/errors"
	"github.com/dropradar/dropstack/internal/lifecycle"
	"github.com/dropradar/dropstack/internal/utils"
)

// Registries disagree wildly on field names. Each family lists the spellings
// observed in the wild, matched case-insensitively against "key: value" lines
// of the raw record when the structured parser gives up.
var (
	expiryFieldAliases = []string{
		"registry expiry date",
		"registrar registration expiration date",
		"expiry date",
		"expiration date",
		"expiration time",
		"domain expiration date",
		"expire date",
		"expires on",
		"expires",
		"expire",
		"expired",
		"expiration",
		"paid-till",
		"valid until",
		"renewal date",
		"exp date",
	}
	statusFieldAliases = []string{
		"domain status",
		"status",
		"state",
	}
	createdFieldAliases = []string{
		"creation date",
		"created on",
		"created",
		"registered on",
		"registration date",
		"registration time",
	}
	registrarFieldAliases = []string{
		"sponsoring registrar",
		"registrar name",
		"registrar",
	}
)

// status tokens proving the registration is live. Matched as prefixes so
// variants like clientTransferProhibited count.
var activeStatusTokens = []string{"active", "ok", "client", "server"}

var whoisDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
	"02/01/2006",
	"January 2, 2006",
	"2006/01/02",
}

const recentRegistrationDays = 30

// whoisRecord is the normalized view of one WHOIS response, whichever
// spelling the registry used
type whoisRecord struct {
	statuses  []string
	created   *time.Time
	registrar string
	expiry    *time.Time
}

type whoisChecker struct {
	client     *whois.Client
	retryCount int
	retryDelay time.Duration
	now        func() time.Time
}

func NewWhoisChecker(cfg *config.ValidationConfig) *whoisChecker {
	client := whois.NewClient()
	client.SetTimeout(15 * time.Second)
	return &whoisChecker{
		client:     client,
		retryCount: cfg.WhoisRetryCount,
		retryDelay: time.Duration(cfg.WhoisRetryDelayMs) * time.Millisecond,
		now:        utils.Now,
	}
}

func (c *whoisChecker) Name() string {
	return "whois"
}

func (c *whoisChecker) Check(ctx context.Context, domain string) (enum.Signal, error) {
	raw, err := c.fetchWithRetry(ctx, domain)
	if err != nil {
		return enum.SignalUnknown, errors.Wrap(er.ErrWhoisUnavailable, err.Error())
	}

	return c.interpret(parseWhoisRecord(raw), c.now()), nil
}

// fetchWithRetry retries only transient transport failures. A registry that
// answers, even with garbage, is not retried.
func (c *whoisChecker) fetchWithRetry(ctx context.Context, domain string) (string, error) {
	delay := &backoff.Backoff{
		Min:    c.retryDelay,
		Max:    c.retryDelay * 4,
		Factor: 2,
		Jitter: true,
	}

	var lastErr error
	for attempt := 0; attempt < c.retryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay.Duration()):
			}
		}

		raw, err := c.client.Whois(domain)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !isTransientWhoisError(err) {
			break
		}
	}
	return "", lastErr
}

func isTransientWhoisError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"connection reset", "connection refused", "timeout", "temporarily", "broken pipe"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// interpret maps a normalized record to a signal:
// live-registration evidence rejects, an expiry inside the expected
// post-expiration drop window confirms, anything else is ambiguous.
func (c *whoisChecker) interpret(record whoisRecord, now time.Time) enum.Signal {
	if record.hasActiveStatus() {
		return enum.SignalRegistered
	}
	if record.created != nil && now.Sub(*record.created) < recentRegistrationDays*24*time.Hour {
		return enum.SignalRegistered
	}
	if record.registrar != "" {
		return enum.SignalRegistered
	}

	if record.expiry == nil {
		return enum.SignalUnknown
	}

	daysSince := lifecycle.DaysSinceExpiry(*record.expiry, now)
	if daysSince < 0 {
		return enum.SignalRegistered
	}
	if lifecycle.InDropWindow(daysSince) {
		return enum.SignalAvailable
	}
	return enum.SignalRegistered
}

func (r whoisRecord) hasActiveStatus() bool {
	for _, status := range r.statuses {
		status = strings.ToLower(strings.TrimSpace(status))
		for _, token := range activeStatusTokens {
			if strings.HasPrefix(status, token) {
				return true
			}
		}
	}
	return false
}

// parseWhoisRecord normalizes a raw response: structured parser first, then
// a line scan over the alias families for registries the parser rejects
func parseWhoisRecord(raw string) whoisRecord {
	var record whoisRecord

	parsed, err := whoisparser.Parse(raw)
	if err == nil {
		if parsed.Domain != nil {
			record.statuses = parsed.Domain.Status
			if t, ok := parseWhoisDate(parsed.Domain.CreatedDate); ok {
				record.created = &t
			}
			if t, ok := parseWhoisDate(parsed.Domain.ExpirationDate); ok {
				record.expiry = &t
			}
		}
		if parsed.Registrar != nil {
			record.registrar = strings.TrimSpace(parsed.Registrar.Name)
		}
		if record.expiry != nil {
			return record
		}
	}

	scanned := scanRawRecord(raw)
	if len(record.statuses) == 0 {
		record.statuses = scanned.statuses
	}
	if record.registrar == "" {
		record.registrar = scanned.registrar
	}
	if record.created == nil {
		record.created = scanned.created
	}
	if record.expiry == nil {
		record.expiry = scanned.expiry
	}
	return record
}

func scanRawRecord(raw string) whoisRecord {
	var record whoisRecord

	for _, line := range strings.Split(raw, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		switch {
		case matchesAlias(key, expiryFieldAliases):
			if record.expiry == nil {
				if t, ok := parseWhoisDate(value); ok {
					record.expiry = &t
				}
			}
		case matchesAlias(key, statusFieldAliases):
			record.statuses = append(record.statuses, value)
		case matchesAlias(key, createdFieldAliases):
			if record.created == nil {
				if t, ok := parseWhoisDate(value); ok {
					record.created = &t
				}
			}
		case matchesAlias(key, registrarFieldAliases):
			if record.registrar == "" {
				record.registrar = value
			}
		}
	}

	return record
}

func matchesAlias(key string, aliases []string) bool {
	for _, alias := range aliases {
		if key == alias {
			return true
		}
	}
	return false
}

func parseWhoisDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range whoisDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
