package api

import (
	"fmt"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"leadflow/internal/common/errors"
	"leadflow/internal/common/validation"
	"leadflow/internal/roi"
	estimateimpact "leadflow/internal/workers/roi/estimate-impact"
)

type industrySummary struct {
	ID    roi.Industry `json:"id"`
	Label string       `json:"label"`
}

type industryDetail struct {
	industrySummary
	Groups   []roi.GroupedFields `json:"groups"`
	Defaults roi.Values          `json:"defaults"`
}

func (s *Server) handleListIndustries(w http.ResponseWriter, r *http.Request) {
	industries := roi.Industries()
	out := make([]industrySummary, 0, len(industries))
	for _, ind := range industries {
		out = append(out, industrySummary{ID: ind, Label: ind.Label()})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"industries": out})
}

func (s *Server) handleGetIndustry(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "industry")
	industry, err := roi.ParseIndustry(raw)
	if err != nil {
		s.writeError(w, r, errors.NewInvalidIndustryError(raw))
		return
	}
	writeJSON(w, http.StatusOK, industryDetail{
		industrySummary: industrySummary{ID: industry, Label: industry.Label()},
		Groups:          roi.FieldsByGroup(industry),
		Defaults:        roi.Defaults(industry),
	})
}

// handleEstimate validates the body with the worker's job schema and runs
// the same estimator the workflow uses.
func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := decodeJSON(r, &body, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	result := validation.ValidateInput(body, estimateimpact.GetInputSchema())
	if !result.Valid {
		s.writeError(w, r, errors.NewInputValidationError(fmt.Sprintf("Validation errors: %v", result.GetErrorMessages())))
		return
	}

	input := &estimateimpact.Input{Industry: body["industry"].(string)}
	if values, ok := body["values"].(map[string]interface{}); ok {
		input.Values = roi.ValuesFromMap(values)
	}
	if useDefaults, ok := body["useDefaults"].(bool); ok {
		input.UseDefaults = useDefaults
	}

	out, err := s.estimator.Execute(r.Context(), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
