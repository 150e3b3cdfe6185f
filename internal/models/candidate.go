package models

import (
	"time"

	"github.com/dropradar/dropstack/internal/enum"
)

// CandidateDomain is a single row from the upstream auction feed, normalized
// but not yet scored or validated
type CandidateDomain struct {
	DomainName string    `json:"domainName"`
	DropDate   time.Time `json:"dropDate"`
	ExpiryDate time.Time `json:"expiryDate"`
	Registrar  string    `json:"registrar"`
}

// ValidationVerdict is the availability validator's answer for one candidate.
// WhoisFailed marks verdicts produced after WHOIS transport failures; the
// orchestrator feeds those into its cooldown counter, clean rejects do not
// count.
type ValidationVerdict struct {
	Outcome     enum.Verdict `json:"outcome"`
	Reason      string       `json:"reason"`
	WhoisFailed bool         `json:"whoisFailed"`
}

// IngestSummary is the end-of-run report for one ingestion pass
type IngestSummary struct {
	Fetched        int `json:"fetched"`
	Accepted       int `json:"accepted"`
	LowScore       int `json:"lowScore"`
	Registered     int `json:"registered"`
	WhoisFailures  int `json:"whoisFailures"`
	CooldownSleeps int `json:"cooldownSleeps"`

	// quality tier breakdown of accepted domains
	Premium int `json:"premium"`
	Good    int `json:"good"`
	Average int `json:"average"`
}

// SweepSummary is the end-of-run report for one reconciliation sweep
type SweepSummary struct {
	Scanned       int            `json:"scanned"`
	Updated       int            `json:"updated"`
	PurgedDropped int            `json:"purgedDropped"`
	PurgedScope   int            `json:"purgedScope"`
	StatusCounts  map[string]int `json:"statusCounts"`
}
