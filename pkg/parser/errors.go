package parser

import "errors"

// Parse failures reported to callers. The messages are part of the API
// contract: callers surface them to users verbatim. Individual lines or
// words that fail to classify are never errors, only expected OCR noise;
// these two fire when the whole input yields nothing.
var (
	// ErrNoDateFound means no word in the input parsed as a calendar date.
	ErrNoDateFound = errors.New("No date found")

	// ErrNoItemsFound means no line classified as a purchased item before
	// the total line or end of input.
	ErrNoItemsFound = errors.New("No items found")
)
