package feed

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropradar/dropstack/config"
	"github.com/dropradar/dropstack/interfaces"
	er "github.com/dropradar/dropstack/internal/errors"
	"github.com/dropradar/dropstack/internal/logger"
)

func newTestService(t *testing.T, cfg *config.FeedConfig) *feedService {
	t.Helper()
	log := logger.NewAppLogger(&logger.Config{DevMode: true})
	log.InitLogger()
	return NewFeedService(cfg, log, nil).(*feedService)
}

func buildArchive(t *testing.T, csvPayload string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entry, err := zw.Create("export.csv")
	require.NoError(t, err)
	_, err = entry.Write([]byte(csvPayload))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParseExport_HeaderAliases(t *testing.T) {
	svc := newTestService(t, &config.FeedConfig{RequestTimeoutSeconds: 5})

	headers := []string{
		"DomainName,DropDate",
		"Domain,Drop Date",
		"domain,drop_date",
	}
	for _, header := range headers {
		archive := buildArchive(t, header+"\nexample.com,2026-10-01\n")
		candidates, err := svc.parseExport(archive)
		require.NoError(t, err, "header %q", header)
		require.Len(t, candidates, 1)
		require.Equal(t, "example.com", candidates[0].DomainName)
	}
}

func TestParseExport_RegexFallbackHeaders(t *testing.T) {
	svc := newTestService(t, &config.FeedConfig{RequestTimeoutSeconds: 5})

	archive := buildArchive(t, "Expiring Domain,Scheduled Drop Date\nexample.org,2026-10-01\n")
	candidates, err := svc.parseExport(archive)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, "example.org", candidates[0].DomainName)
}

func TestParseExport_ExpiryDerivedFromDropDate(t *testing.T) {
	svc := newTestService(t, &config.FeedConfig{RequestTimeoutSeconds: 5})

	archive := buildArchive(t, "Domain,DropDate\nexample.com,2026-10-15\n")
	candidates, err := svc.parseExport(archive)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	drop := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	require.Equal(t, drop, candidates[0].DropDate)
	require.Equal(t, drop.AddDate(0, 0, -75), candidates[0].ExpiryDate)
}

func TestParseExport_SkipsBadRows(t *testing.T) {
	svc := newTestService(t, &config.FeedConfig{RequestTimeoutSeconds: 5})

	payload := "Domain,DropDate,Registrar\n" +
		"good.com,2026-10-01,Acme Registrar\n" +
		"baddate.com,not-a-date,Acme Registrar\n" +
		"truncated.com\n" +
		",2026-10-02,Acme Registrar\n" +
		"second.com,10/02/2026,\n"
	archive := buildArchive(t, payload)
	candidates, err := svc.parseExport(archive)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	require.Equal(t, "good.com", candidates[0].DomainName)
	require.Equal(t, "Acme Registrar", candidates[0].Registrar)
	require.Equal(t, "second.com", candidates[1].DomainName)
	require.Equal(t, time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC), candidates[1].DropDate)
}

func TestParseExport_MissingColumns(t *testing.T) {
	svc := newTestService(t, &config.FeedConfig{RequestTimeoutSeconds: 5})

	_, err := svc.parseExport(buildArchive(t, "Registrar,DropDate\nacme,2026-10-01\n"))
	require.ErrorIs(t, err, er.ErrFeedNoDomainColumn)

	_, err = svc.parseExport(buildArchive(t, "Domain,Registrar\nexample.com,acme\n"))
	require.ErrorIs(t, err, er.ErrFeedNoDropDateColumn)
}

func TestFetchCandidates_LiveFeed(t *testing.T) {
	archive := buildArchive(t, "Domain,DropDate\nlive.com,2026-10-01\n")

	mux := http.NewServeMux()
	mux.HandleFunc("/auth", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "feed-user", creds["username"])
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "test-token"})
	})
	mux.HandleFunc("/export", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_, _ = w.Write(archive)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	svc := newTestService(t, &config.FeedConfig{
		AuthURL:               server.URL + "/auth",
		ExportURL:             server.URL + "/export",
		APIUser:               "feed-user",
		APISecret:             "secret",
		RequestTimeoutSeconds: 5,
	})

	candidates, err := svc.FetchCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, "live.com", candidates[0].DomainName)
}

func TestFetchCandidates_FallbackWhenFeedDown(t *testing.T) {
	svc := newTestService(t, &config.FeedConfig{
		AuthURL:               "http://127.0.0.1:1/auth",
		ExportURL:             "http://127.0.0.1:1/export",
		RequestTimeoutSeconds: 1,
		FallbackEnabled:       true,
	})

	candidates, err := svc.FetchCandidates(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	for _, c := range candidates {
		require.Equal(t, interfaces.SyntheticRegistrar, c.Registrar)
		require.Equal(t, c.DropDate.AddDate(0, 0, -75), c.ExpiryDate)
	}
}

func TestFetchCandidates_FallbackDisabled(t *testing.T) {
	svc := newTestService(t, &config.FeedConfig{
		AuthURL:               "http://127.0.0.1:1/auth",
		ExportURL:             "http://127.0.0.1:1/export",
		RequestTimeoutSeconds: 1,
	})

	_, err := svc.FetchCandidates(context.Background())
	require.ErrorIs(t, err, er.ErrFeedAuthFailed)
}
