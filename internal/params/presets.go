package params

import "github.com/masterdesk/api/internal/model"

// presets holds one complete parameter set per target platform. These
// back the fallback path when generation fails and fill any field a
// generated response omits.
var presets = map[model.Platform]model.MasteringParameters{
	model.PlatformStreaming: {
		InputTrimDb:      0.0,
		CompThreshold:    -13.0,
		CompRatio:        1.6,
		AttackMs:         12.0,
		ReleaseMs:        80.0,
		EqLowHz:          120.0,
		EqLowDb:          -0.8,
		EqLowQ:           0.7,
		EqHighHz:         3500.0,
		EqHighDb:         0.6,
		EqHighQ:          0.7,
		LimiterCeiling:   -1.0,
		LimiterLookahead: 1.0,
		LimiterRelease:   40.0,
		TargetLufs:       -14.0,
		TargetPeak:       -1.0,
		Platform:         model.PlatformStreaming,
		ProfileName:      "Streaming Default",
	},
	model.PlatformClub: {
		InputTrimDb:      0.0,
		CompThreshold:    -10.0,
		CompRatio:        2.0,
		AttackMs:         8.0,
		ReleaseMs:        60.0,
		EqLowHz:          90.0,
		EqLowDb:          1.2,
		EqLowQ:           0.8,
		EqHighHz:         4500.0,
		EqHighDb:         0.8,
		EqHighQ:          0.7,
		LimiterCeiling:   -0.6,
		LimiterLookahead: 1.0,
		LimiterRelease:   30.0,
		TargetLufs:       -8.0,
		TargetPeak:       -0.6,
		Platform:         model.PlatformClub,
		ProfileName:      "Club Loud",
	},
	model.PlatformBroadcast: {
		InputTrimDb:      0.0,
		CompThreshold:    -18.0,
		CompRatio:        1.4,
		AttackMs:         15.0,
		ReleaseMs:        120.0,
		EqLowHz:          150.0,
		EqLowDb:          -1.0,
		EqLowQ:           0.7,
		EqHighHz:         3000.0,
		EqHighDb:         0.4,
		EqHighQ:          0.7,
		LimiterCeiling:   -2.0,
		LimiterLookahead: 1.0,
		LimiterRelease:   50.0,
		TargetLufs:       -23.0,
		TargetPeak:       -2.0,
		Platform:         model.PlatformBroadcast,
		ProfileName:      "Broadcast R128",
	},
	model.PlatformVideo: {
		InputTrimDb:      0.0,
		CompThreshold:    -14.0,
		CompRatio:        1.5,
		AttackMs:         12.0,
		ReleaseMs:        90.0,
		EqLowHz:          120.0,
		EqLowDb:          -0.5,
		EqLowQ:           0.7,
		EqHighHz:         3500.0,
		EqHighDb:         0.5,
		EqHighQ:          0.7,
		LimiterCeiling:   -1.5,
		LimiterLookahead: 1.0,
		LimiterRelease:   40.0,
		TargetLufs:       -16.0,
		TargetPeak:       -1.5,
		Platform:         model.PlatformVideo,
		ProfileName:      "Video Standard",
	},
}

// Preset returns the complete fallback parameter set for a platform.
// Unknown platforms get the streaming preset.
func Preset(platform model.Platform) model.MasteringParameters {
	if p, ok := presets[platform]; ok {
		return p
	}
	return presets[model.PlatformStreaming]
}

// paramsPayload mirrors MasteringParameters with pointer fields so a
// decoded response can distinguish absent from zero.
type paramsPayload struct {
	InputTrimDb      *float64 `json:"inputTrimDb"`
	CompThreshold    *float64 `json:"compThreshold"`
	CompRatio        *float64 `json:"compRatio"`
	AttackMs         *float64 `json:"attackMs"`
	ReleaseMs        *float64 `json:"releaseMs"`
	EqLowHz          *float64 `json:"eqLowHz"`
	EqLowDb          *float64 `json:"eqLowDb"`
	EqLowQ           *float64 `json:"eqLowQ"`
	EqHighHz         *float64 `json:"eqHighHz"`
	EqHighDb         *float64 `json:"eqHighDb"`
	EqHighQ          *float64 `json:"eqHighQ"`
	LimiterCeiling   *float64 `json:"limiterCeiling"`
	LimiterLookahead *float64 `json:"limiterLookahead"`
	LimiterRelease   *float64 `json:"limiterRelease"`
	TargetLufs       *float64 `json:"targetLufs"`
	TargetPeak       *float64 `json:"targetPeak"`
	Platform         *string  `json:"platform"`
	ProfileName      *string  `json:"profileName"`
}

// Normalize merges a (possibly partial) payload over the platform's
// fallback preset. Every present field wins over the preset; absent
// fields keep the preset value, so the result is always complete.
func Normalize(platform model.Platform, p paramsPayload) model.MasteringParameters {
	out := Preset(platform)

	apply := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&out.InputTrimDb, p.InputTrimDb)
	apply(&out.CompThreshold, p.CompThreshold)
	apply(&out.CompRatio, p.CompRatio)
	apply(&out.AttackMs, p.AttackMs)
	apply(&out.ReleaseMs, p.ReleaseMs)
	apply(&out.EqLowHz, p.EqLowHz)
	apply(&out.EqLowDb, p.EqLowDb)
	apply(&out.EqLowQ, p.EqLowQ)
	apply(&out.EqHighHz, p.EqHighHz)
	apply(&out.EqHighDb, p.EqHighDb)
	apply(&out.EqHighQ, p.EqHighQ)
	apply(&out.LimiterCeiling, p.LimiterCeiling)
	apply(&out.LimiterLookahead, p.LimiterLookahead)
	apply(&out.LimiterRelease, p.LimiterRelease)
	apply(&out.TargetLufs, p.TargetLufs)
	apply(&out.TargetPeak, p.TargetPeak)

	if p.Platform != nil && model.IsValidPlatform(model.Platform(*p.Platform)) {
		out.Platform = model.Platform(*p.Platform)
	} else {
		out.Platform = platform
	}
	if p.ProfileName != nil && *p.ProfileName != "" {
		out.ProfileName = *p.ProfileName
	}

	return out
}
