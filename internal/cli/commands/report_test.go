package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/billscan/billscan/pkg/config"
	"github.com/billscan/billscan/pkg/parser"
	"github.com/billscan/billscan/pkg/store"
)

// seedStore creates a receipt database with two receipts, one in April
// and one in May 2017.
func seedStore(t *testing.T, dbPath string) {
	t.Helper()

	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	defer st.Close()

	receipts := []*store.Receipt{
		{
			ID:     "april",
			Locale: "generic",
			Date:   parser.NewDate(2017, time.April, 7),
			Items: []parser.LineItem{
				{Name: "MILK", Quantity: 2, Amount: 5.98},
				{Name: "BREAD", Quantity: 1, Amount: 2.99},
			},
			ImportedAt: time.Now().UTC(),
		},
		{
			ID:     "may",
			Locale: "generic",
			Date:   parser.NewDate(2017, time.May, 2),
			Items: []parser.LineItem{
				{Name: "milk", Quantity: 1, Amount: 2.99},
			},
			ImportedAt: time.Now().UTC(),
		},
	}
	for _, r := range receipts {
		if err := st.Save(r); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
}

func TestRunReport_AllReceipts(t *testing.T) {
	resetExitCode(t)
	dbPath := filepath.Join(t.TempDir(), "billscan.db")
	t.Setenv(config.EnvStore, dbPath)
	seedStore(t, dbPath)

	cmd := NewReportCommand()
	cmd.SetArgs([]string{})

	output, err := captureStdout(t, func() error {
		return cmd.ExecuteContext(context.Background())
	})
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	if !strings.Contains(output, "MILK") {
		t.Errorf("Expected MILK in report, got:\n%s", output)
	}
	// Case insensitive grouping: MILK appears once across both receipts
	if strings.Contains(output, "milk ") {
		t.Errorf("Expected case insensitive grouping, got:\n%s", output)
	}
	if !strings.Contains(output, "2 receipt(s)") {
		t.Errorf("Expected receipt count in summary, got:\n%s", output)
	}
}

func TestRunReport_Month(t *testing.T) {
	resetExitCode(t)
	dbPath := filepath.Join(t.TempDir(), "billscan.db")
	t.Setenv(config.EnvStore, dbPath)
	seedStore(t, dbPath)

	cmd := NewReportCommand()
	cmd.SetArgs([]string{"--month", "2017-05"})

	output, err := captureStdout(t, func() error {
		return cmd.ExecuteContext(context.Background())
	})
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	// Only the May receipt contributes
	if !strings.Contains(output, "milk") {
		t.Errorf("Expected May item in report, got:\n%s", output)
	}
	if strings.Contains(output, "BREAD") {
		t.Errorf("April item leaked into May report:\n%s", output)
	}
	if !strings.Contains(output, "1 receipt(s)") {
		t.Errorf("Expected one receipt in summary, got:\n%s", output)
	}
}

func TestRunReport_EmptyStore(t *testing.T) {
	resetExitCode(t)
	dbPath := filepath.Join(t.TempDir(), "billscan.db")
	t.Setenv(config.EnvStore, dbPath)

	cmd := NewReportCommand()
	cmd.SetArgs([]string{})

	output, err := captureStdout(t, func() error {
		return cmd.ExecuteContext(context.Background())
	})
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	if !strings.Contains(output, "No spending recorded") {
		t.Errorf("Expected empty report message, got:\n%s", output)
	}
}

func TestRunReport_Webhook(t *testing.T) {
	resetExitCode(t)
	dbPath := filepath.Join(t.TempDir(), "billscan.db")
	t.Setenv(config.EnvStore, dbPath)
	seedStore(t, dbPath)

	received := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = true
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cmd := NewReportCommand()
	cmd.SetArgs([]string{"--webhook-url", server.URL})

	if _, err := captureStdout(t, func() error {
		return cmd.ExecuteContext(context.Background())
	}); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	if !received {
		t.Error("Expected webhook to be delivered")
	}
}

func TestTimeFrameOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    ReportOptions
		wantErr bool
		wantN   int
	}{
		{"none", ReportOptions{}, false, 0},
		{"month", ReportOptions{Month: "2017-04"}, false, 1},
		{"invalid month", ReportOptions{Month: "April"}, true, 0},
		{"from and to", ReportOptions{From: "2017-01-01", To: "2017-07-01"}, false, 1},
		{"from without to", ReportOptions{From: "2017-01-01"}, true, 0},
		{"to before from", ReportOptions{From: "2017-07-01", To: "2017-01-01"}, true, 0},
		{"month with from", ReportOptions{Month: "2017-04", From: "2017-01-01"}, true, 0},
		{"invalid from", ReportOptions{From: "soon", To: "2017-07-01"}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := timeFrameOptions(&tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("timeFrameOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.wantN {
				t.Errorf("len(options) = %d, want %d", len(got), tt.wantN)
			}
		})
	}
}

func TestShouldFireWebhook(t *testing.T) {
	tests := []struct {
		trigger  config.WebhookTrigger
		hasItems bool
		want     bool
	}{
		{config.WebhookTriggerAlways, false, true},
		{config.WebhookTriggerAlways, true, true},
		{config.WebhookTriggerNever, true, false},
		{config.WebhookTriggerOnReports, true, true},
		{config.WebhookTriggerOnReports, false, false},
		{config.WebhookTrigger("bogus"), true, true},
	}

	for _, tt := range tests {
		got := shouldFireWebhook(tt.trigger, tt.hasItems)
		if got != tt.want {
			t.Errorf("shouldFireWebhook(%q, %v) = %v, want %v", tt.trigger, tt.hasItems, got, tt.want)
		}
	}
}

func TestCollectWebhooks(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Webhooks = []config.WebhookConfig{
		{Name: "configured", URL: "https://example.com/a"},
	}

	opts := &ReportOptions{
		WebhookURL:     "https://example.com/b",
		WebhookTrigger: "always",
	}

	webhooks := collectWebhooks(cfg, opts)
	if len(webhooks) != 2 {
		t.Fatalf("len(webhooks) = %d, want 2", len(webhooks))
	}
	if webhooks[1].Name != "cli" {
		t.Errorf("CLI webhook name = %q, want cli", webhooks[1].Name)
	}
	if webhooks[1].Trigger != config.WebhookTriggerAlways {
		t.Errorf("CLI webhook trigger = %q, want always", webhooks[1].Trigger)
	}
}
