package availability

import (
	"context"
	"strings"

	"github.com/opentracing/opentracing-go"
	tracingLog "github.com/opentracing/opentracing-go/log"

	"github.com/dropradar/dropstack/config"
	"github.com/dropradar/dropstack/interfaces"
	"github.com/dropradar/dropstack/internal/enum"
	"github.com/dropradar/dropstack/internal/logger"
	"github.com/dropradar/dropstack/internal/models"
	"github.com/dropradar/dropstack/internal/tracing"
)

type availabilityService struct {
	cfg      *config.ValidationConfig
	log      logger.Logger
	checkers []interfaces.AvailabilityChecker
}

func NewAvailabilityService(cfg *config.ValidationConfig, log logger.Logger) interfaces.AvailabilityService {
	byName := map[string]interfaces.AvailabilityChecker{
		"dns":    NewDNSChecker(cfg),
		"whois":  NewWhoisChecker(cfg),
		"scrape": NewScrapeChecker(cfg),
	}
	return newServiceWithCheckers(cfg, log, byName)
}

// newServiceWithCheckers resolves the configured signal order against the
// available checkers; tests swap in fakes here
func newServiceWithCheckers(cfg *config.ValidationConfig, log logger.Logger, byName map[string]interfaces.AvailabilityChecker) *availabilityService {
	var ordered []interfaces.AvailabilityChecker
	for _, name := range strings.Split(cfg.SignalOrder, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "scrape" && !cfg.ScrapeEnabled {
			continue
		}
		checker, ok := byName[name]
		if !ok {
			log.Warnf("Unknown validation signal %q in signal order, skipping", name)
			continue
		}
		ordered = append(ordered, checker)
	}
	return &availabilityService{
		cfg:      cfg,
		log:      log,
		checkers: ordered,
	}
}

// Validate folds the configured signal cascade into a single verdict.
// DNS proving registration is an absolute veto. Absence of DNS records alone
// never confirms; it only arms the no-WHOIS-expiry heuristic and the
// WHOIS-outage fallback. Anything still ambiguous at the end of the cascade
// is rejected.
func (s *availabilityService) Validate(ctx context.Context, domain string) models.ValidationVerdict {
	span, ctx := opentracing.StartSpanFromContext(ctx, "AvailabilityService.Validate")
	defer span.Finish()
	tracing.TagComponentChecker(span)
	tracing.TagDomain(span, domain)

	verdict := s.runCascade(ctx, domain)

	span.LogFields(
		tracingLog.String("result.outcome", verdict.Outcome.String()),
		tracingLog.String("result.reason", verdict.Reason),
		tracingLog.Bool("result.whoisFailed", verdict.WhoisFailed),
	)
	return verdict
}

func (s *availabilityService) runCascade(ctx context.Context, domain string) models.ValidationVerdict {
	dnsNoRecords := false

	for _, checker := range s.checkers {
		signal, err := checker.Check(ctx, domain)

		switch checker.Name() {
		case "dns":
			if err != nil {
				s.log.Debugf("DNS check inconclusive for %s: %v", domain, err)
				continue
			}
			if signal == enum.SignalRegistered {
				return rejected("DNS records found, domain is registered")
			}
			if signal == enum.SignalAvailable {
				dnsNoRecords = true
			}

		case "whois":
			if err != nil {
				s.log.Warnf("WHOIS lookup failed for %s: %v", domain, err)
				if dnsNoRecords {
					return models.ValidationVerdict{
						Outcome:     enum.VerdictConfirmed,
						Reason:      "WHOIS unreachable, DNS shows no records",
						WhoisFailed: true,
					}
				}
				return models.ValidationVerdict{
					Outcome:     enum.VerdictRejected,
					Reason:      "WHOIS unreachable and DNS inconclusive",
					WhoisFailed: true,
				}
			}
			switch signal {
			case enum.SignalRegistered:
				return rejected("WHOIS indicates current registration")
			case enum.SignalAvailable:
				return confirmed("WHOIS expiry inside the drop window")
			default:
				if dnsNoRecords && s.cfg.TrustNoWhois {
					return confirmed("no DNS records and no WHOIS expiry on file")
				}
			}

		case "scrape":
			if err != nil {
				s.log.Debugf("Scrape check inconclusive for %s: %v", domain, err)
				continue
			}
			if signal == enum.SignalRegistered {
				return rejected("registrar search reports the domain as taken")
			}
			if signal == enum.SignalAvailable {
				return confirmed("registrar search reports the domain as available")
			}
		}
	}

	return rejected("no signal produced conclusive evidence of availability")
}

func confirmed(reason string) models.ValidationVerdict {
	return models.ValidationVerdict{Outcome: enum.VerdictConfirmed, Reason: reason}
}

func rejected(reason string) models.ValidationVerdict {
	return models.ValidationVerdict{Outcome: enum.VerdictRejected, Reason: reason}
}
