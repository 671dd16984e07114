package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/billscan/billscan/pkg/parser"
)

// NewLocalesCommand creates the locales command.
func NewLocalesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locales",
		Short: "List supported receipt locales",
		Long: `List the receipt locales BillScan can parse.

Unknown locale names fall back to the default at parse time rather
than failing.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Supported locales:")
			for _, name := range parser.NewRegistry().Names() {
				if name == parser.DefaultLocale {
					fmt.Printf("  %s (default)\n", name)
				} else {
					fmt.Printf("  %s\n", name)
				}
			}
		},
	}
}
