package glycemic

// Band is the categorical bucket a glycemic value falls into.
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// SourceFallback marks a lower-confidence estimate from the prediction service.
const SourceFallback = "fallback"

// PredictionResult is the payload returned by the external prediction service.
// Nil pointers mean the field was absent.
type PredictionResult struct {
	PPGI           *float64 `json:"ppgi,omitempty"`
	GL             *float64 `json:"gl,omitempty"`
	IAUCFood       *float64 `json:"iauc_food,omitempty"`
	IAUCGlucoseRef *float64 `json:"iauc_glucose_ref,omitempty"`
	Source         string   `json:"source,omitempty"`
}

// RiskFactors are the optional client supplied inputs driving the adjustment range.
// The zero value is neutral and produces no adjustment.
type RiskFactors struct {
	FamilyDiabetes   bool   `json:"familyDiabetes"`
	HealthProblems   bool   `json:"healthProblems"`
	Alcoholic        bool   `json:"alcoholic"`
	Gender           string `json:"gender,omitempty"`
	BloodGroup       string `json:"bloodGroup,omitempty"`
	PhysicalActivity string `json:"physicalActivity,omitempty"`
}

// DefaultRiskFactors mirrors the defaults of the input form.
func DefaultRiskFactors() RiskFactors {
	return RiskFactors{
		BloodGroup:       BloodGroupUnknown,
		PhysicalActivity: ActivityModerate,
	}
}

const (
	GenderMale   = "male"
	GenderFemale = "female"

	BloodGroupO       = "O"
	BloodGroupUnknown = "unknown"

	ActivityLow      = "low"
	ActivityModerate = "moderate"
)

// Adjustment is the bounded +/- range displayed around a prediction.
type Adjustment struct {
	Score            float64 `json:"score"`
	Normalized       float64 `json:"normalized"`
	RelativeFraction float64 `json:"relativeFraction"`
	Delta            float64 `json:"delta"`
	Low              float64 `json:"low"`
	High             float64 `json:"high"`
}

// Interpretation is the displayable result for one prediction response.
type Interpretation struct {
	PPGI            float64     `json:"ppgi"`
	GIBand          Band        `json:"giBand"`
	GILabel         string      `json:"giLabel"`
	GL              *float64    `json:"gl,omitempty"`
	GLBand          *Band       `json:"glBand,omitempty"`
	IAUCFood        *float64    `json:"iaucFood,omitempty"`
	IAUCGlucoseRef  *float64    `json:"iaucGlucoseRef,omitempty"`
	Source          string      `json:"source,omitempty"`
	Adjustment      *Adjustment `json:"adjustment,omitempty"`
	FallbackWarning bool        `json:"fallbackWarning"`
}

// HasIAUC reports whether both area-under-curve figures are present.
func (i Interpretation) HasIAUC() bool {
	return i.IAUCFood != nil && i.IAUCGlucoseRef != nil
}
