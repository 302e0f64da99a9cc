package glycemic

import (
	"fmt"
	"math"
)

// MissingFieldError reports a prediction response without a usable value for a required field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("prediction response has no usable %s value", e.Field)
}

// Interpret turns a prediction response into its displayable interpretation.
// It either returns a complete Interpretation or fails with *MissingFieldError.
func Interpret(res PredictionResult, risk RiskFactors) (Interpretation, error) {
	if res.PPGI == nil || math.IsNaN(*res.PPGI) || math.IsInf(*res.PPGI, 0) {
		return Interpretation{}, &MissingFieldError{Field: "ppgi"}
	}
	ppgi := *res.PPGI

	giBand, giLabel := ClassifyGI(ppgi)
	adjustment := ComputeAdjustment(ppgi, risk)

	out := Interpretation{
		PPGI:            ppgi,
		GIBand:          giBand,
		GILabel:         giLabel,
		GL:              copyFloat(res.GL),
		IAUCFood:        copyFloat(res.IAUCFood),
		IAUCGlucoseRef:  copyFloat(res.IAUCGlucoseRef),
		Source:          res.Source,
		Adjustment:      &adjustment,
		FallbackWarning: res.Source == SourceFallback,
	}
	if band, ok := ClassifyGL(res.GL); ok {
		out.GLBand = &band
	}
	return out, nil
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
