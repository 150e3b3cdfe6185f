package errors

import "github.com/pkg/errors"

var (
	// common errors
	ErrConnectionTimeout = errors.New("connection timeout")

	// feed errors
	ErrFeedAuthFailed       = errors.New("feed authentication failed")
	ErrFeedEmptyArchive     = errors.New("feed archive is empty")
	ErrFeedNoDomainColumn   = errors.New("feed has no recognizable domain column")
	ErrFeedNoDropDateColumn = errors.New("feed has no recognizable drop date column")

	// validation errors
	ErrWhoisUnavailable = errors.New("whois lookup failed after retries")
	ErrScrapeBlocked    = errors.New("registrar search page blocked the request")

	// domain errors
	ErrDomainNotFound = errors.New("domain not found")
)
