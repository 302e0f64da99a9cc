package glycemic

const (
	giMediumFloor = 56.0
	giHighFloor   = 70.0
	glMediumFloor = 11.0
	glHighFloor   = 20.0
)

const (
	labelLowGI    = "Low GI (0–55) – slow rise in blood sugar"
	labelMediumGI = "Medium GI (56–69) – moderate rise in blood sugar"
	labelHighGI   = "High GI (70+) – rapid rise in blood sugar"
)

// ClassifyGI buckets a glycemic index. Thresholds are inclusive at the lower
// bound of Medium and High.
func ClassifyGI(ppgi float64) (Band, string) {
	switch {
	case ppgi >= giHighFloor:
		return BandHigh, labelHighGI
	case ppgi >= giMediumFloor:
		return BandMedium, labelMediumGI
	default:
		return BandLow, labelLowGI
	}
}

// ClassifyGL buckets a glycemic load. ok is false when gl is absent.
func ClassifyGL(gl *float64) (band Band, ok bool) {
	if gl == nil {
		return "", false
	}
	switch {
	case *gl >= glHighFloor:
		return BandHigh, true
	case *gl >= glMediumFloor:
		return BandMedium, true
	default:
		return BandLow, true
	}
}
