package cli

import (
	"github.com/spf13/pflag"

	"github.com/yanqian/ppgi-advisor/internal/domain/glycemic"
	"github.com/yanqian/ppgi-advisor/internal/domain/prediction"
)

const (
	flagGender         = "gender"
	flagBloodGroup     = "blood-group"
	flagFamilyDiabetes = "family-diabetes"
	flagActivity       = "activity"
	flagHealthProblems = "health-problems"
	flagAlcoholic      = "alcoholic"
)

// riskFlags are the form answers that feed the personal adjustment.
type riskFlags struct {
	gender         string
	bloodGroup     string
	familyDiabetes bool
	activity       string
	healthProblems bool
	alcoholic      bool
}

func (f *riskFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.gender, flagGender, "", "Gender (male, female)")
	flags.StringVar(&f.bloodGroup, flagBloodGroup, "", "Blood group (O+, A-, B, AB, unknown)")
	flags.BoolVar(&f.familyDiabetes, flagFamilyDiabetes, false, "Family history of diabetes")
	flags.StringVar(&f.activity, flagActivity, "", "Physical activity (sedentary, lightly active, moderately active, very active)")
	flags.BoolVar(&f.healthProblems, flagHealthProblems, false, "Existing health problems")
	flags.BoolVar(&f.alcoholic, flagAlcoholic, false, "Regular alcohol consumption")
}

// apply copies the flags onto a form request.
func (f *riskFlags) apply(req *prediction.Request) {
	req.Gender = f.gender
	req.BloodGroup = f.bloodGroup
	req.FamilyHistory = "No"
	if f.familyDiabetes {
		req.FamilyHistory = "Yes"
	}
	req.PhysicalActivity = f.activity
	req.HealthProblems = f.healthProblems
	req.Alcoholic = f.alcoholic
}

// riskFactors normalizes the given answers like the form does, but an
// answer that was not given stays at its neutral zero value.
func (f *riskFlags) riskFactors(flags *pflag.FlagSet) glycemic.RiskFactors {
	var req prediction.Request
	f.apply(&req)
	risk := prediction.RiskFromRequest(req)
	if !flags.Changed(flagBloodGroup) {
		risk.BloodGroup = ""
	}
	if !flags.Changed(flagActivity) {
		risk.PhysicalActivity = ""
	}
	return risk
}
