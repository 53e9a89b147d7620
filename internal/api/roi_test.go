package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListIndustries(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/roi/industries", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	industries := decodeBody(t, rec)["industries"].([]interface{})
	require.Len(t, industries, 5)
	first := industries[0].(map[string]interface{})
	assert.Equal(t, "healthcare", first["id"])
	assert.Equal(t, "Healthcare / Med Spa / Dental", first["label"])
}

func TestGetIndustry(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/roi/industries/home-services", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "home_services", body["id"])
	assert.Equal(t, "High-Ticket Home Services", body["label"])

	defaults := body["defaults"].(map[string]interface{})
	assert.Equal(t, 200.0, defaults["leads"])
	assert.Equal(t, 8500.0, defaults["avgJob"])

	groups := body["groups"].([]interface{})
	require.NotEmpty(t, groups)
	assert.Equal(t, "Volume", groups[0].(map[string]interface{})["group"])
}

func TestGetIndustry_Unknown(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/roi/industries/retail", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INDUSTRY", errorCode(t, rec))
}

func TestEstimate(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/roi/estimate", map[string]interface{}{
		"industry":    "legal",
		"useDefaults": true,
		"values":      map[string]interface{}{"staffCount": 6},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "legal", body["industry"])
	assert.Equal(t, "Legal Services", body["label"])
	assert.Equal(t, 6.0, body["values"].(map[string]interface{})["staffCount"])

	impact := body["impact"].(map[string]interface{})
	monthly := impact["totalMonthlyImpact"].(float64)
	assert.Greater(t, monthly, 0.0)
	assert.InDelta(t, monthly*12, impact["annualImpact"].(float64), 0.01)

	formatted := body["formatted"].(map[string]interface{})
	assert.Contains(t, formatted["totalMonthlyImpact"], "$")
}

func TestEstimate_Rejections(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name   string
		body   interface{}
		status int
		code   string
	}{
		{"malformed json", `{"industry":`, http.StatusBadRequest, "INVALID_PAYLOAD"},
		{"empty body", "", http.StatusBadRequest, "INVALID_PAYLOAD"},
		{"missing industry", map[string]interface{}{"values": map[string]interface{}{}}, http.StatusBadRequest, "INPUT_VALIDATION_FAILED"},
		{"values not an object", map[string]interface{}{"industry": "legal", "values": 3}, http.StatusBadRequest, "INPUT_VALIDATION_FAILED"},
		{"unknown industry", map[string]interface{}{"industry": "retail"}, http.StatusBadRequest, "INVALID_INDUSTRY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/roi/estimate", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}
