// BillScan - Receipt Parsing and Spending Tracker
//
// BillScan parses raw receipt OCR text into purchase dates and line
// items, stores imported receipts locally and aggregates them into
// spending reports.
package main

import (
	"os"

	"github.com/billscan/billscan/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
