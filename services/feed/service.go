package feed

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/opentracing/opentracing-go"
	tracingLog "github.com/opentracing/opentracing-go/log"
	"github.com/pkg/errors"
	"golang.org/x/net/context"

	"github.com/dropradar/dropstack/config"
	"github.com/dropradar/dropstack/interfaces"
	er "github.com/dropradar/dropstack/internal/errors"
	"github.com/dropradar/dropstack/internal/lifecycle"
	"github.com/dropradar/dropstack/internal/logger"
	"github.com/dropradar/dropstack/internal/models"
	"github.com/dropradar/dropstack/internal/tracing"
	"github.com/dropradar/dropstack/internal/utils"
)

// Known header spellings seen across feed exports. Resolution tries exact
// aliases first, then the regex fallbacks, because the upstream renames
// columns without notice.
var (
	domainColumnAliases   = []string{"DomainName", "Domain", "domain", "domain_name", "Name"}
	dropDateColumnAliases = []string{"DropDate", "Drop Date", "drop_date", "DeleteDate", "deletion_date"}
	registrarColumnAliases = []string{"Registrar", "registrar", "RegistrarName"}

	domainColumnPattern   = regexp.MustCompile(`(?i)domain|name`)
	dropDateColumnPattern = regexp.MustCompile(`(?i)drop.*date|delete.*date`)
)

var dropDateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"1/2/2006",
	"01/02/2006",
	"2006.01.02",
}

type feedService struct {
	cfg      *config.FeedConfig
	log      logger.Logger
	client   *http.Client
	snapshot interfaces.StorageService // nil when R2 is not configured
}

func NewFeedService(cfg *config.FeedConfig, log logger.Logger, snapshot interfaces.StorageService) interfaces.FeedService {
	return &feedService{
		cfg: cfg,
		log: log,
		client: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		},
		snapshot: snapshot,
	}
}

func (s *feedService) FetchCandidates(ctx context.Context) ([]models.CandidateDomain, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "FeedService.FetchCandidates")
	defer span.Finish()
	tracing.TagComponentService(span)

	candidates, err := s.fetchLive(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		if !s.cfg.FallbackEnabled {
			return nil, err
		}
		s.log.Warnf("Feed fetch failed, substituting synthetic dataset: %v", err)
		span.LogFields(tracingLog.Bool("result.synthetic", true))
		return syntheticCandidates(utils.Now()), nil
	}

	span.LogFields(tracingLog.Int("result.count", len(candidates)))
	return candidates, nil
}

func (s *feedService) fetchLive(ctx context.Context) ([]models.CandidateDomain, error) {
	if s.cfg.AuthURL == "" || s.cfg.ExportURL == "" {
		return nil, errors.New("feed endpoints are not configured")
	}

	token, err := s.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	archive, err := s.downloadExport(ctx, token)
	if err != nil {
		return nil, err
	}

	s.archiveSnapshot(ctx, archive)

	return s.parseExport(archive)
}

// authenticate exchanges the stored credentials for a short-lived bearer token
func (s *feedService) authenticate(ctx context.Context) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "FeedService.authenticate")
	defer span.Finish()

	body, err := json.Marshal(map[string]string{
		"username": s.cfg.APIUser,
		"apiKey":   s.cfg.APISecret,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.AuthURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req = tracing.InjectSpanContextIntoHTTPRequest(req, span)

	resp, err := s.client.Do(req)
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "failed to call feed auth endpoint"))
		return "", errors.Wrap(er.ErrFeedAuthFailed, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Wrapf(er.ErrFeedAuthFailed, "auth endpoint returned %d", resp.StatusCode)
		tracing.TraceErr(span, err)
		return "", err
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "failed to decode auth response"))
		return "", err
	}
	if payload.Token == "" {
		return "", errors.Wrap(er.ErrFeedAuthFailed, "auth response carried no token")
	}

	return payload.Token, nil
}

func (s *feedService) downloadExport(ctx context.Context, token string) ([]byte, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "FeedService.downloadExport")
	defer span.Finish()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.ExportURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req = tracing.InjectSpanContextIntoHTTPRequest(req, span)

	resp, err := s.client.Do(req)
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "failed to download feed export"))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("feed export endpoint returned %d", resp.StatusCode)
		tracing.TraceErr(span, err)
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "failed to read feed export"))
		return nil, err
	}

	span.LogFields(tracingLog.Int("result.bytes", len(data)))
	return data, nil
}

// archiveSnapshot keeps the raw export bytes for replay and audit. Failures
// are logged, never fatal to the run.
func (s *feedService) archiveSnapshot(ctx context.Context, archive []byte) {
	if s.snapshot == nil {
		return
	}
	key := fmt.Sprintf("feed-%s.zip", utils.Now().Format("2006-01-02T15-04-05"))
	if err := s.snapshot.Upload(ctx, key, archive, "application/zip"); err != nil {
		s.log.Warnf("Failed to archive feed snapshot %s: %v", key, err)
	}
}

// parseExport unpacks the single-entry zip archive and parses its CSV payload
func (s *feedService) parseExport(archive []byte) ([]models.CandidateDomain, error) {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, errors.Wrap(err, "feed archive is not a readable zip")
	}
	if len(reader.File) == 0 {
		return nil, er.ErrFeedEmptyArchive
	}

	entry, err := reader.File[0].Open()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open feed archive entry")
	}
	defer entry.Close()

	payload, err := io.ReadAll(entry)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read feed archive entry")
	}

	return s.parseRows(payload)
}

func (s *feedService) parseRows(payload []byte) ([]models.CandidateDomain, error) {
	reader := newCsvReader(payload)

	headers, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "feed payload has no header row")
	}

	domainIdx := resolveColumn(headers, domainColumnAliases, domainColumnPattern)
	if domainIdx == -1 {
		return nil, er.ErrFeedNoDomainColumn
	}
	dropDateIdx := resolveColumn(headers, dropDateColumnAliases, dropDateColumnPattern)
	if dropDateIdx == -1 {
		return nil, er.ErrFeedNoDropDateColumn
	}
	registrarIdx := resolveColumn(headers, registrarColumnAliases, nil)

	var candidates []models.CandidateDomain
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.log.Warnf("Skipping malformed feed row %d: %v", line, err)
			continue
		}
		if domainIdx >= len(row) || dropDateIdx >= len(row) {
			s.log.Warnf("Skipping truncated feed row %d", line)
			continue
		}

		name := utils.NormalizeDomainName(row[domainIdx])
		if name == "" {
			s.log.Warnf("Skipping feed row %d: empty domain name", line)
			continue
		}

		dropDate, ok := parseDropDate(row[dropDateIdx])
		if !ok {
			s.log.Warnf("Skipping feed row %d (%s): unparseable drop date %q", line, name, row[dropDateIdx])
			continue
		}

		registrar := ""
		if registrarIdx != -1 && registrarIdx < len(row) {
			registrar = strings.TrimSpace(row[registrarIdx])
		}

		candidates = append(candidates, models.CandidateDomain{
			DomainName: name,
			DropDate:   dropDate,
			ExpiryDate: lifecycle.ExpiryFromDropDate(dropDate),
			Registrar:  registrar,
		})
	}

	return candidates, nil
}

// resolveColumn binds a logical field to a header index: exact alias match
// first, regex fallback second
func resolveColumn(headers []string, aliases []string, fallback *regexp.Regexp) int {
	for _, alias := range aliases {
		for i, header := range headers {
			if strings.TrimSpace(header) == alias {
				return i
			}
		}
	}
	if fallback == nil {
		return -1
	}
	for i, header := range headers {
		if fallback.MatchString(header) {
			return i
		}
	}
	return -1
}

func parseDropDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dropDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return lifecycle.UTCMidnight(t), true
		}
	}
	return time.Time{}, false
}
