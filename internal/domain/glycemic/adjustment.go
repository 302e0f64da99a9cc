package glycemic

import "math"

const (
	// maxRiskScore is the sum of every weight at its maximum: 1 + 1 + 1 + 0.5 + 0.05 + 0.1.
	maxRiskScore = 3.65
	// maxRelativeChange caps the range at 40% of the prediction.
	maxRelativeChange = 0.4
)

// ComputeAdjustment derives a presentation-only range around ppgi from the
// client supplied risk factors. It never fails.
func ComputeAdjustment(ppgi float64, risk RiskFactors) Adjustment {
	score := riskScore(risk)
	normalized := clamp01(score / maxRiskScore)
	fraction := normalized * maxRelativeChange
	delta := math.Abs(ppgi) * fraction

	return Adjustment{
		Score:            score,
		Normalized:       normalized,
		RelativeFraction: fraction,
		Delta:            delta,
		Low:              math.Max(0, ppgi-delta),
		High:             ppgi + delta,
	}
}

func riskScore(risk RiskFactors) float64 {
	var fam, health, alc, gender, blood, activity float64
	if risk.FamilyDiabetes {
		fam = 1.0
	}
	if risk.HealthProblems {
		health = 1.0
	}
	if risk.Alcoholic {
		alc = 0.5
	}
	if risk.Gender == GenderMale || risk.Gender == GenderFemale {
		gender = 0.05
	}
	switch risk.BloodGroup {
	case BloodGroupO:
		blood = 0.1
	case BloodGroupUnknown, "":
		blood = 0
	default:
		blood = 0.05
	}
	switch risk.PhysicalActivity {
	case ActivityLow:
		activity = 1.0
	case ActivityModerate:
		activity = 0.5
	}
	return fam + activity + health + alc + gender + blood
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
