package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/billscan/billscan/pkg/config"
)

// finnishReceipt parses with the "fi" locale: a two-line item, a
// single-line item and a total line.
const finnishReceipt = `K-MARKET VANTAA
23.4.2017
RAJEUUSTO PEHMEA                    4.17
    3 KPL      1.39 EUR/KPL
MAITO 2.50
YHTEENSÄ 6.67
`

const genericReceipt = `SUPER STORE
4.07.17
HAIR DRYER 1 @ 20.00 , 79.99
MILK 2 5.98
Total 85.97
`

// captureStdout runs fn with os.Stdout redirected to a pipe and
// returns what was written. Commands print with fmt directly, so
// cobra's SetOut is not enough.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String(), fnErr
}

// resetExitCode restores the package exit code after a test that may
// set it.
func resetExitCode(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { ExitCode = 0 })
}

func writeReceiptFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create receipt file: %v", err)
	}
	return path
}

func TestNewParseCommand(t *testing.T) {
	cmd := NewParseCommand()

	if cmd.Use != "parse <receipt-file>..." {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	// Check flags exist
	flags := []string{"config", "locale", "output", "verbose", "quiet"}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestNewImportCommand(t *testing.T) {
	cmd := NewImportCommand()

	if cmd.Use != "import <receipt-file>..." {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	flags := []string{"config", "locale", "skip-duplicates", "quiet"}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestNewReportCommand(t *testing.T) {
	cmd := NewReportCommand()

	if cmd.Use != "report" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	flags := []string{"config", "month", "from", "to", "limit", "output", "webhook-url", "webhook-token", "webhook-trigger"}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	if cmd.Use != "validate <config-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	if !strings.Contains(cmd.Long, "Validate") {
		t.Error("Missing description in Long")
	}
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()

	if cmd.Use != "version" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
}

func TestNewLocalesCommand(t *testing.T) {
	cmd := NewLocalesCommand()

	output, err := captureStdout(t, func() error {
		cmd.SetArgs([]string{})
		return cmd.ExecuteContext(context.Background())
	})
	if err != nil {
		t.Fatalf("Locales failed: %v", err)
	}

	if !strings.Contains(output, "fi") {
		t.Error("Expected fi in locales output")
	}
	if !strings.Contains(output, "generic (default)") {
		t.Error("Expected generic marked as default")
	}
}

func TestRunValidate_Success(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	config := `locale: fi
store: ` + filepath.Join(tmpDir, "billscan.db") + `
output:
  format: json
webhooks:
  - name: spending
    url: https://example.com/hook
    trigger: on_reports
`
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})

	output, err := captureStdout(t, func() error {
		return cmd.ExecuteContext(context.Background())
	})
	if err != nil {
		t.Errorf("Validate failed: %v", err)
	}
	if !strings.Contains(output, "Configuration valid!") {
		t.Error("Expected success message")
	}
	if !strings.Contains(output, "Locale: fi") {
		t.Error("Expected locale in output")
	}
	if !strings.Contains(output, "[on_reports] spending") {
		t.Error("Expected webhook listing")
	}
}

func TestRunValidate_UnknownLocale(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	config := `locale: sv
store: billscan.db
`
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})

	output, err := captureStdout(t, func() error {
		return cmd.ExecuteContext(context.Background())
	})
	if err != nil {
		t.Errorf("Validate failed: %v", err)
	}
	if !strings.Contains(output, "not registered") {
		t.Error("Expected unknown locale warning")
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	// Invalid YAML
	if err := os.WriteFile(configPath, []byte("invalid: yaml: content"), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})

	_, err := captureStdout(t, func() error {
		return cmd.ExecuteContext(context.Background())
	})
	if err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	cmd := NewValidateCommand()
	cmd.SetArgs([]string{"/nonexistent/config.yaml"})

	_, err := captureStdout(t, func() error {
		return cmd.ExecuteContext(context.Background())
	})
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadConfig_NoPath(t *testing.T) {
	cfg, err := loadConfig(context.Background(), "")
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Locale != config.DefaultLocale {
		t.Errorf("Locale = %q, want %q", cfg.Locale, config.DefaultLocale)
	}
	if cfg.Store != config.DefaultStore {
		t.Errorf("Store = %q, want %q", cfg.Store, config.DefaultStore)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv(config.EnvLocale, "fi")
	t.Setenv(config.EnvStore, "/tmp/override.db")

	cfg, err := loadConfig(context.Background(), "")
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Locale != "fi" {
		t.Errorf("Locale = %q, want fi", cfg.Locale)
	}
	if cfg.Store != "/tmp/override.db" {
		t.Errorf("Store = %q, want /tmp/override.db", cfg.Store)
	}
}

func TestCreateFormatter(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"text", false},
		{"json", false},
		{"invalid", true},
	}

	cfg := config.DefaultConfig()
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			_, err := createFormatter(cfg, tt.format, false, false)
			if (err != nil) != tt.wantErr {
				t.Errorf("createFormatter(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestCreateFormatter_ConfigDefault(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Format = "json"

	f, err := createFormatter(cfg, "", false, false)
	if err != nil {
		t.Fatalf("createFormatter() error = %v", err)
	}
	if f.Name() != "json" {
		t.Errorf("Name() = %q, want json", f.Name())
	}
}
