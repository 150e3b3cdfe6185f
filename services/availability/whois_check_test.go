package availability

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/dropradar/dropstack/internal/enum"
)

var whoisNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func daysAgo(days int) *time.Time {
	t := whoisNow.AddDate(0, 0, -days)
	return &t
}

func TestScanRawRecord_ExpiryAliases(t *testing.T) {
	variants := []string{
		"Registry Expiry Date: 2026-06-24T04:00:00Z",
		"Registrar Registration Expiration Date: 2026-06-24",
		"Expiration Date: 24-Jun-2026",
		"expiration time: 2026-06-24 15:31:00",
		"paid-till: 2026.06.24",
		"Expires On: 2026-06-24",
		"valid until: 2026/06/24",
	}
	for _, line := range variants {
		record := scanRawRecord(line + "\n")
		require.NotNil(t, record.expiry, "line %q", line)
		require.Equal(t, 2026, record.expiry.Year(), "line %q", line)
		require.Equal(t, time.June, record.expiry.Month(), "line %q", line)
		require.Equal(t, 24, record.expiry.Day(), "line %q", line)
	}
}

func TestScanRawRecord_FieldFamilies(t *testing.T) {
	raw := "Domain Status: clientTransferProhibited https://icann.org/epp\n" +
		"Creation Date: 2019-03-11T00:00:00Z\n" +
		"Sponsoring Registrar: Acme Names LLC\n" +
		"Registry Expiry Date: 2027-03-11T00:00:00Z\n" +
		"some unrelated line without separator\n"

	record := scanRawRecord(raw)
	require.Equal(t, []string{"clientTransferProhibited https://icann.org/epp"}, record.statuses)
	require.NotNil(t, record.created)
	require.Equal(t, "Acme Names LLC", record.registrar)
	require.NotNil(t, record.expiry)
	require.True(t, record.hasActiveStatus())
}

func TestInterpret(t *testing.T) {
	checker := &whoisChecker{}

	tests := []struct {
		name   string
		record whoisRecord
		want   enum.Signal
	}{
		{
			name:   "active status token rejects",
			record: whoisRecord{statuses: []string{"ok"}, expiry: daysAgo(65)},
			want:   enum.SignalRegistered,
		},
		{
			name:   "server status token rejects",
			record: whoisRecord{statuses: []string{"serverDeleteProhibited"}},
			want:   enum.SignalRegistered,
		},
		{
			name:   "recent creation rejects",
			record: whoisRecord{created: daysAgo(10)},
			want:   enum.SignalRegistered,
		},
		{
			name:   "registrar on file rejects",
			record: whoisRecord{registrar: "Acme Names LLC"},
			want:   enum.SignalRegistered,
		},
		{
			name:   "future expiry rejects",
			record: whoisRecord{expiry: daysAgo(-200)},
			want:   enum.SignalRegistered,
		},
		{
			name:   "expiry inside drop window confirms",
			record: whoisRecord{expiry: daysAgo(65)},
			want:   enum.SignalAvailable,
		},
		{
			name:   "expiry before drop window rejects",
			record: whoisRecord{expiry: daysAgo(30)},
			want:   enum.SignalRegistered,
		},
		{
			name:   "expiry past drop window rejects",
			record: whoisRecord{expiry: daysAgo(90)},
			want:   enum.SignalRegistered,
		},
		{
			name:   "no expiry is ambiguous",
			record: whoisRecord{},
			want:   enum.SignalUnknown,
		},
		{
			name:   "pendingDelete status is not an active token",
			record: whoisRecord{statuses: []string{"pendingDelete"}, expiry: daysAgo(65)},
			want:   enum.SignalAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, checker.interpret(tt.record, whoisNow))
		})
	}
}

func TestIsTransientWhoisError(t *testing.T) {
	require.True(t, isTransientWhoisError(fmt.Errorf("read tcp: connection reset by peer")))
	require.True(t, isTransientWhoisError(fmt.Errorf("dial tcp: i/o timeout")))
	require.True(t, isTransientWhoisError(errors.Wrap(io.EOF, "read failed")))
	require.False(t, isTransientWhoisError(fmt.Errorf("whois: no whois server found for tld")))
	require.False(t, isTransientWhoisError(nil))
}
