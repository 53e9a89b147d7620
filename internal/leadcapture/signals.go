package leadcapture

import (
	"encoding/json"
	"math"
	"net/url"
	"strings"
	"time"
)

// SignalKind names the producer of a completion signal.
type SignalKind string

const (
	SignalMessage SignalKind = "message"
	SignalHash    SignalKind = "hash"
	SignalResize  SignalKind = "resize"
	SignalEntry   SignalKind = "entry"
	SignalManual  SignalKind = "manual"
)

type Signal struct {
	Kind   SignalKind `json:"kind"`
	Detail string     `json:"detail,omitempty"`
	At     time.Time  `json:"at"`
}

// IsCompletionMessage reports whether a cross-window message payload looks
// like the form widget's submit notification. The widget's message shape is
// not stable, so several variants are accepted.
func IsCompletionMessage(payload interface{}, tokens []string) bool {
	switch p := payload.(type) {
	case nil:
		return false
	case string:
		if matchesToken(p, tokens) {
			return true
		}
		// widgets sometimes post JSON as a string
		trimmed := strings.TrimSpace(p)
		if strings.HasPrefix(trimmed, "{") {
			var obj map[string]interface{}
			if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
				return isCompletionObject(obj, tokens)
			}
		}
		return false
	case []byte:
		return IsCompletionMessage(json.RawMessage(p), tokens)
	case json.RawMessage:
		var decoded interface{}
		if err := json.Unmarshal(p, &decoded); err != nil {
			return false
		}
		return IsCompletionMessage(decoded, tokens)
	case map[string]interface{}:
		return isCompletionObject(p, tokens)
	}
	return false
}

func isCompletionObject(obj map[string]interface{}, tokens []string) bool {
	for _, key := range []string{"type", "event"} {
		if s, ok := obj[key].(string); ok && matchesToken(s, tokens) {
			return true
		}
	}
	for _, key := range []string{"payload", "data"} {
		if nested, ok := obj[key].(map[string]interface{}); ok {
			if s, ok := nested["event"].(string); ok && matchesToken(s, tokens) {
				return true
			}
		}
	}
	_, hasFormID := obj["formId"]
	return hasFormID
}

func matchesToken(s string, tokens []string) bool {
	for _, t := range tokens {
		if s == t {
			return true
		}
	}
	return false
}

// IsCompletionHash reports whether a URL fragment is a completion sentinel.
// The leading '#' is optional on either side.
func IsCompletionHash(hash string, sentinels []string) bool {
	h := strings.TrimPrefix(strings.TrimSpace(hash), "#")
	if h == "" {
		return false
	}
	for _, s := range sentinels {
		if h == strings.TrimPrefix(s, "#") {
			return true
		}
	}
	return false
}

// EntrySubmitted reports whether the page was entered with an explicit
// "already submitted" marker in its query or fragment.
func EntrySubmitted(entryURL string, cfg Config) bool {
	if entryURL == "" {
		return false
	}
	u, err := url.Parse(entryURL)
	if err != nil {
		return false
	}
	if cfg.SubmittedParam != "" {
		key, want, _ := strings.Cut(cfg.SubmittedParam, "=")
		if vals, ok := u.Query()[key]; ok {
			for _, v := range vals {
				if v == want {
					return true
				}
			}
		}
	}
	return IsCompletionHash(u.Fragment, cfg.HashSentinels)
}

// ResizeIndicatesCompletion is the bare size predicate: an abrupt change of
// more than threshold pixels.
func ResizeIndicatesCompletion(before, after, threshold float64) bool {
	if math.IsNaN(before) || math.IsNaN(after) {
		return false
	}
	return math.Abs(after-before) > threshold
}

// ResizeDetector watches the form container's height. Measurements taken
// within ArmDelay of the first one only refresh the baseline, so layout
// settling and early window resizes are not mistaken for a submission.
type ResizeDetector struct {
	Threshold float64
	ArmDelay  time.Duration

	baseline float64
	firstAt  time.Time
	measured bool
}

func NewResizeDetector(threshold float64, armDelay time.Duration) *ResizeDetector {
	return &ResizeDetector{Threshold: threshold, ArmDelay: armDelay}
}

// Observe records a height measurement and reports whether it indicates
// completion.
func (d *ResizeDetector) Observe(height float64, at time.Time) bool {
	if math.IsNaN(height) || math.IsInf(height, 0) || height < 0 {
		return false
	}
	if !d.measured {
		d.baseline = height
		d.firstAt = at
		d.measured = true
		return false
	}
	if at.Sub(d.firstAt) < d.ArmDelay {
		d.baseline = height
		return false
	}
	return ResizeIndicatesCompletion(d.baseline, height, d.Threshold)
}

func (d *ResizeDetector) Armed(at time.Time) bool {
	return d.measured && at.Sub(d.firstAt) >= d.ArmDelay
}

func (d *ResizeDetector) Reset() {
	d.baseline = 0
	d.firstAt = time.Time{}
	d.measured = false
}
