package leadcapture

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsCompletionMessage(t *testing.T) {
	tokens := DefaultConfig().MessageTokens

	tests := []struct {
		name    string
		payload interface{}
		want    bool
	}{
		{"bare token", "tally_form_submit", true},
		{"upper token", "TALLY_FORM_SUBMIT", true},
		{"unknown string", "page_view", false},
		{"type field", map[string]interface{}{"type": "form_submit"}, true},
		{"event field", map[string]interface{}{"event": "Tally.FormSubmitted"}, true},
		{"payload event", map[string]interface{}{"payload": map[string]interface{}{"event": "form_submit"}}, true},
		{"data event", map[string]interface{}{"data": map[string]interface{}{"event": "tally_form_submit"}}, true},
		{"formId only", map[string]interface{}{"formId": "mZ0q4b"}, true},
		{"unrelated object", map[string]interface{}{"type": "resize", "height": 400}, false},
		{"json string", `{"event":"Tally.FormSubmitted","payload":{}}`, true},
		{"raw json", json.RawMessage(`{"formId":"abc"}`), true},
		{"raw json token", json.RawMessage(`"form_submit"`), true},
		{"bad raw json", json.RawMessage(`{`), false},
		{"nil", nil, false},
		{"number", 42, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCompletionMessage(tt.payload, tokens))
		})
	}
}

func TestIsCompletionHash(t *testing.T) {
	sentinels := DefaultConfig().HashSentinels

	assert.True(t, IsCompletionHash("#calendar", sentinels))
	assert.True(t, IsCompletionHash("submitted", sentinels))
	assert.False(t, IsCompletionHash("#pricing", sentinels))
	assert.False(t, IsCompletionHash("", sentinels))
	assert.False(t, IsCompletionHash("#", sentinels))
}

func TestEntrySubmitted(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, EntrySubmitted("https://site.example/strategy-call?submitted=true", cfg))
	assert.True(t, EntrySubmitted("https://site.example/strategy-call#calendar", cfg))
	assert.True(t, EntrySubmitted("/strategy-call?utm=x&submitted=true", cfg))
	assert.False(t, EntrySubmitted("https://site.example/strategy-call?submitted=false", cfg))
	assert.False(t, EntrySubmitted("https://site.example/strategy-call", cfg))
	assert.False(t, EntrySubmitted("", cfg))
	assert.False(t, EntrySubmitted("%zz", cfg))
}

func TestResizeIndicatesCompletion(t *testing.T) {
	assert.True(t, ResizeIndicatesCompletion(900, 300, 120))
	assert.True(t, ResizeIndicatesCompletion(300, 900, 120))
	assert.False(t, ResizeIndicatesCompletion(900, 800, 120))
	assert.False(t, ResizeIndicatesCompletion(900, 780, 120))
}

func TestResizeDetector(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	d := NewResizeDetector(120, 2*time.Second)

	assert.False(t, d.Observe(400, start), "first measurement is the baseline")
	assert.False(t, d.Armed(start))
	// layout settling before arming only moves the baseline
	assert.False(t, d.Observe(900, start.Add(time.Second)))
	assert.False(t, d.Observe(910, start.Add(3*time.Second)))
	assert.True(t, d.Armed(start.Add(3*time.Second)))
	assert.True(t, d.Observe(350, start.Add(4*time.Second)))

	d.Reset()
	assert.False(t, d.Observe(350, start.Add(5*time.Second)))
	assert.False(t, d.Observe(-1, start.Add(9*time.Second)))
}
