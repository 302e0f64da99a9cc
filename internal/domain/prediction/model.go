package prediction

import (
	"encoding/json"
	"time"

	"github.com/yanqian/ppgi-advisor/internal/domain/food"
	"github.com/yanqian/ppgi-advisor/internal/domain/glycemic"
)

// Request is the prediction form submitted by the end user. Nutrient values
// left nil are filled from the food table when a known food key is selected.
type Request struct {
	Gender             string   `json:"gender"`
	Age                float64  `json:"age"`
	Weight             float64  `json:"weight"`
	WaistCircumference float64  `json:"waist_circumference"`
	BirthPlace         string   `json:"birth_place"`
	BloodGroup         string   `json:"blood_group"`
	FamilyHistory      string   `json:"family_history"`
	PhysicalActivity   string   `json:"physical_activity"`
	FoodItem           string   `json:"food_item"`
	FoodManualName     string   `json:"food_manual_name"`
	Carb               *float64 `json:"carb"`
	Protein            *float64 `json:"protein"`
	Fat                *float64 `json:"fat"`
	DietaryFiber       *float64 `json:"dietary_fiber"`
	HealthProblems     bool     `json:"health_problems"`
	Alcoholic          bool     `json:"alcoholic"`
}

// UpstreamRequest is the body posted to the external prediction service.
type UpstreamRequest struct {
	Gender             string  `json:"gender"`
	Age                float64 `json:"age"`
	Weight             float64 `json:"weight"`
	WaistCircumference float64 `json:"waist_circumference"`
	BirthPlace         string  `json:"birth_place"`
	BloodGroup         string  `json:"blood_group"`
	FamilyHistory      string  `json:"family_history"`
	PhysicalActivity   string  `json:"physical_activity"`
	FoodItem           string  `json:"food_item"`
	Carb               float64 `json:"carb"`
	Protein            float64 `json:"protein"`
	Fat                float64 `json:"fat"`
	DietaryFiber       float64 `json:"dietary_fiber"`
}

// FoodSelection describes the food that was sent upstream.
type FoodSelection struct {
	Key        string         `json:"key,omitempty"`
	Name       string         `json:"name"`
	Nutrients  food.Nutrients `json:"nutrients"`
	Autofilled bool           `json:"autofilled"`
}

// Record is one interpreted prediction kept in history.
type Record struct {
	ID             string                  `json:"id"`
	CreatedAt      time.Time               `json:"createdAt"`
	Input          UpstreamRequest         `json:"input"`
	Risk           glycemic.RiskFactors    `json:"risk"`
	Food           FoodSelection           `json:"food"`
	Interpretation glycemic.Interpretation `json:"interpretation"`
}

// Response is serialized back to API consumers.
type Response struct {
	Record
	Cached bool `json:"cached"`
}

// InterpretRequest carries an already obtained prediction service payload.
type InterpretRequest struct {
	Prediction json.RawMessage      `json:"prediction"`
	Risk       glycemic.RiskFactors `json:"risk"`
}

// Config wires runtime knobs for the prediction domain.
type Config struct {
	CacheTTL    time.Duration
	RecentLimit int
}
