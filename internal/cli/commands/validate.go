package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/billscan/billscan/pkg/config"
	"github.com/billscan/billscan/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a BillScan configuration file without parsing anything.

Checks:
  - YAML syntax
  - Required fields
  - Output format validity
  - Webhook URL and trigger validity
  - Locale registration (warning only)
  - Receipt database existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Printf("Validating %s...\n", configPath)

	// Load and validate config
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	// Report what we found
	fmt.Printf("\nConfiguration valid!\n")
	fmt.Printf("  Locale: %s\n", cfg.Locale)
	fmt.Printf("  Store:  %s\n", cfg.Store)
	fmt.Printf("  Output: %s\n", cfg.Output.Format)

	// List webhooks
	if len(cfg.Webhooks) > 0 {
		fmt.Printf("\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}
			fmt.Printf("  %d. [%s] %s\n", i+1, wh.Trigger, name)
		}
	}

	// Check the locale is registered (warning only)
	registered := false
	for _, name := range parser.NewRegistry().Names() {
		if name == cfg.Locale {
			registered = true
			break
		}
	}
	if !registered {
		fmt.Printf("\nWarning: Locale %q is not registered, parsing will fall back to %q\n",
			cfg.Locale, parser.DefaultLocale)
	}

	// Check if the receipt database exists (warnings only)
	if _, err := os.Stat(cfg.Store); os.IsNotExist(err) {
		fmt.Printf("\nNote: Receipt database does not exist yet, 'billscan import' will create it\n")
	}

	return nil
}
