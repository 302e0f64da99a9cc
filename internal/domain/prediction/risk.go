package prediction

import (
	"strings"

	"github.com/yanqian/ppgi-advisor/internal/domain/glycemic"
)

// RiskFromRequest maps free-form form values onto the interpreter's risk factors.
func RiskFromRequest(req Request) glycemic.RiskFactors {
	return glycemic.RiskFactors{
		FamilyDiabetes:   hasFamilyHistory(req.FamilyHistory),
		HealthProblems:   req.HealthProblems,
		Alcoholic:        req.Alcoholic,
		Gender:           strings.ToLower(strings.TrimSpace(req.Gender)),
		BloodGroup:       normalizeBloodGroup(req.BloodGroup),
		PhysicalActivity: normalizeActivity(req.PhysicalActivity),
	}
}

func hasFamilyHistory(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return strings.HasPrefix(v, "yes") || v == "true" || v == "1"
}

// normalizeBloodGroup drops the rhesus factor: "O+" and "O-" both become "O".
func normalizeBloodGroup(value string) string {
	v := strings.ToUpper(strings.TrimSpace(value))
	v = strings.TrimRight(v, "+-")
	v = strings.TrimSpace(v)
	if v == "" || v == "UNKNOWN" {
		return glycemic.BloodGroupUnknown
	}
	return v
}

func normalizeActivity(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "", v == glycemic.ActivityModerate, strings.HasPrefix(v, "moderately"):
		return glycemic.ActivityModerate
	case v == glycemic.ActivityLow, strings.HasPrefix(v, "sedentary"), strings.HasPrefix(v, "lightly"):
		return glycemic.ActivityLow
	default:
		return "high"
	}
}
