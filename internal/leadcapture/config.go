package leadcapture

import (
	"time"

	"leadflow/internal/common/config"
)

// SchedulerConfig is passed verbatim to the scheduling widget's inline init.
type SchedulerConfig struct {
	URL       string `json:"url"`
	Container string `json:"container"`
}

// RetryPolicy bounds the wait for the scheduling widget to become ready.
type RetryPolicy struct {
	InitialDelay time.Duration
	Interval     time.Duration
	MaxElapsed   time.Duration
	// MaxAttempts caps readiness polls; 0 means only MaxElapsed applies.
	MaxAttempts int
}

type Config struct {
	TransitionDelay time.Duration
	ResizeThreshold float64
	ResizeArmDelay  time.Duration
	MessageTokens   []string
	HashSentinels   []string
	SubmittedParam  string
	Scheduler       SchedulerConfig
	Retry           RetryPolicy
}

const (
	DefaultSchedulerURL       = "https://calendly.com/csanz06?hide_gdpr_banner=1"
	DefaultSchedulerContainer = ".calendly-inline-widget"
)

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InitialDelay: 100 * time.Millisecond,
		Interval:     500 * time.Millisecond,
		MaxElapsed:   10 * time.Second,
	}
}

func DefaultConfig() Config {
	return Config{
		TransitionDelay: 800 * time.Millisecond,
		ResizeThreshold: 120,
		ResizeArmDelay:  2 * time.Second,
		MessageTokens:   []string{"tally_form_submit", "TALLY_FORM_SUBMIT", "form_submit", "Tally.FormSubmitted"},
		HashSentinels:   []string{"#calendar", "#submitted"},
		SubmittedParam:  "submitted=true",
		Scheduler: SchedulerConfig{
			URL:       DefaultSchedulerURL,
			Container: DefaultSchedulerContainer,
		},
		Retry: DefaultRetryPolicy(),
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TransitionDelay <= 0 {
		c.TransitionDelay = d.TransitionDelay
	}
	if c.ResizeThreshold <= 0 {
		c.ResizeThreshold = d.ResizeThreshold
	}
	if c.ResizeArmDelay < 0 {
		c.ResizeArmDelay = 0
	}
	if len(c.MessageTokens) == 0 {
		c.MessageTokens = d.MessageTokens
	}
	if len(c.HashSentinels) == 0 {
		c.HashSentinels = d.HashSentinels
	}
	if c.SubmittedParam == "" {
		c.SubmittedParam = d.SubmittedParam
	}
	if c.Scheduler.URL == "" {
		c.Scheduler.URL = d.Scheduler.URL
	}
	if c.Scheduler.Container == "" {
		c.Scheduler.Container = d.Scheduler.Container
	}
	if c.Retry.Interval <= 0 {
		c.Retry.Interval = d.Retry.Interval
	}
	if c.Retry.MaxElapsed <= 0 {
		c.Retry.MaxElapsed = d.Retry.MaxElapsed
	}
	return c
}

// FromAppConfig converts the lead_capture section. Zero values fall back to
// the defaults when a session is created.
func FromAppConfig(c config.LeadCaptureConfig) Config {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	return Config{
		TransitionDelay: ms(c.TransitionDelay),
		ResizeThreshold: c.ResizeThreshold,
		ResizeArmDelay:  ms(c.ResizeArmDelay),
		MessageTokens:   c.MessageTokens,
		HashSentinels:   c.HashSentinels,
		SubmittedParam:  c.SubmittedParam,
		Scheduler: SchedulerConfig{
			URL:       c.Scheduler.URL,
			Container: c.Scheduler.Container,
		},
		Retry: RetryPolicy{
			InitialDelay: ms(c.Retry.InitialDelay),
			Interval:     ms(c.Retry.Interval),
			MaxElapsed:   ms(c.Retry.MaxElapsed),
			MaxAttempts:  c.Retry.MaxAttempts,
		},
	}
}
