package model

// MasteringParameters is the flat record of DSP knobs driving one
// mastering run. It is an immutable value object: normalization replaces
// it wholesale, nothing ever mutates individual fields after creation.
type MasteringParameters struct {
	InputTrimDb      float64  `json:"inputTrimDb"`
	CompThreshold    float64  `json:"compThreshold"`
	CompRatio        float64  `json:"compRatio"`
	AttackMs         float64  `json:"attackMs"`
	ReleaseMs        float64  `json:"releaseMs"`
	EqLowHz          float64  `json:"eqLowHz"`
	EqLowDb          float64  `json:"eqLowDb"`
	EqLowQ           float64  `json:"eqLowQ"`
	EqHighHz         float64  `json:"eqHighHz"`
	EqHighDb         float64  `json:"eqHighDb"`
	EqHighQ          float64  `json:"eqHighQ"`
	LimiterCeiling   float64  `json:"limiterCeiling"`
	LimiterLookahead float64  `json:"limiterLookahead"`
	LimiterRelease   float64  `json:"limiterRelease"`
	TargetLufs       float64  `json:"targetLufs"`
	TargetPeak       float64  `json:"targetPeak"`
	Platform         Platform `json:"platform" validate:"required,oneof=streaming club broadcast video"`
	ProfileName      string   `json:"profileName" validate:"required"`
}
