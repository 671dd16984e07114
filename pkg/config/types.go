// Package config provides configuration loading and validation for BillScan.
package config

import (
	"time"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Locale selects the recognizer pairing used for parsing. Unknown
	// values degrade to the default locale at parse time rather than
	// failing here.
	Locale string `yaml:"locale,omitempty"`

	// Store is the path of the receipt database file.
	Store string `yaml:"store,omitempty"`

	// Output controls how results are rendered.
	Output OutputConfig `yaml:"output,omitempty"`

	// Webhooks are optional endpoints that receive spending reports.
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	// Format is "text" or "json".
	Format string `yaml:"format,omitempty"`

	// Verbose includes per-receipt detail in reports.
	Verbose bool `yaml:"verbose,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnReports fires after report generation (default).
	WebhookTriggerOnReports WebhookTrigger = "on_reports"
	// WebhookTriggerAlways fires after every import as well.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending spending reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	// Supports ${VAR} and $VAR environment expansion.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_reports" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
