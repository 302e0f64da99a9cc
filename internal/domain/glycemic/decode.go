package glycemic

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// DecodePrediction parses the prediction service wire format. The legacy
// ppgi_value field is used only when ppgi is missing or null. Numeric fields
// accept JSON numbers and numeric strings; anything else counts as absent.
func DecodePrediction(data []byte) (PredictionResult, error) {
	var raw struct {
		PPGI           json.RawMessage `json:"ppgi"`
		PPGIValue      json.RawMessage `json:"ppgi_value"`
		GL             json.RawMessage `json:"gl"`
		IAUCFood       json.RawMessage `json:"iauc_food"`
		IAUCGlucoseRef json.RawMessage `json:"iauc_glucose_ref"`
		Source         json.RawMessage `json:"source"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return PredictionResult{}, err
	}

	ppgi := raw.PPGI
	if isNull(ppgi) {
		ppgi = raw.PPGIValue
	}

	return PredictionResult{
		PPGI:           coerceNumber(ppgi),
		GL:             coerceNumber(raw.GL),
		IAUCFood:       coerceNumber(raw.IAUCFood),
		IAUCGlucoseRef: coerceNumber(raw.IAUCGlucoseRef),
		Source:         coerceString(raw.Source),
	}, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func coerceNumber(raw json.RawMessage) *float64 {
	if isNull(raw) {
		return nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return &v
	default:
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil
		}
		return &v
	}
}

func coerceString(raw json.RawMessage) string {
	if isNull(raw) || raw[0] != '"' {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
