package parser

// ItemRecognizer classifies receipt lines as purchased items for one
// receipt-printing convention (a locale).
type ItemRecognizer interface {
	// Classify examines a window of one or two consecutive lines and
	// attempts to read a line item from it. It returns the item, the
	// number of lines consumed (1 or 2) and true on success, or false
	// when the window does not describe an item. A false return is not
	// an error: headers, addresses and other receipt noise are expected.
	Classify(window []string) (item LineItem, consumed int, ok bool)

	// IsTotalLine reports whether the line marks the start of the
	// summary section. No line after it holds purchasable items.
	IsTotalLine(line string) bool
}

// DateRecognizer finds the purchase date among the words of a receipt.
type DateRecognizer interface {
	// FindDate returns the date parsed from the first qualifying word in
	// document order, or ErrNoDateFound when no word qualifies.
	FindDate(words []string) (Date, error)
}
