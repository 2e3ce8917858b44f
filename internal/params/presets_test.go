package params

import (
	"encoding/json"
	"testing"

	"github.com/masterdesk/api/internal/model"
)

func TestPresetCoversEveryPlatform(t *testing.T) {
	for _, platform := range model.ValidPlatforms {
		p := Preset(platform)
		if p.Platform != platform {
			t.Errorf("preset for %s carries platform %s", platform, p.Platform)
		}
		if p.ProfileName == "" {
			t.Errorf("preset for %s has empty profile name", platform)
		}
		if p.CompRatio < 1.0 {
			t.Errorf("preset for %s has compressor ratio below unity: %v", platform, p.CompRatio)
		}
	}
}

func TestPresetUnknownPlatformFallsBackToStreaming(t *testing.T) {
	p := Preset(model.Platform("cassette"))
	if p.Platform != model.PlatformStreaming {
		t.Fatalf("expected streaming fallback, got %s", p.Platform)
	}
}

func TestNormalizeEmptyPayloadYieldsCompletePreset(t *testing.T) {
	got := Normalize(model.PlatformClub, paramsPayload{})
	want := Preset(model.PlatformClub)
	if got != want {
		t.Fatalf("expected untouched preset for empty payload\n got: %+v\nwant: %+v", got, want)
	}
}

func TestNormalizePartialPayloadWinsOverPreset(t *testing.T) {
	var payload paramsPayload
	if err := json.Unmarshal([]byte(`{"compThreshold": -9.5, "targetLufs": -10}`), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	got := Normalize(model.PlatformStreaming, payload)
	if got.CompThreshold != -9.5 {
		t.Fatalf("expected payload compThreshold to win, got %v", got.CompThreshold)
	}
	if got.TargetLufs != -10 {
		t.Fatalf("expected payload targetLufs to win, got %v", got.TargetLufs)
	}

	// Everything absent from the payload comes from the preset.
	preset := Preset(model.PlatformStreaming)
	if got.AttackMs != preset.AttackMs || got.LimiterCeiling != preset.LimiterCeiling {
		t.Fatalf("expected preset fill for absent fields, got %+v", got)
	}
}

func TestNormalizeDefaultsPlatformAndProfileName(t *testing.T) {
	got := Normalize(model.PlatformBroadcast, paramsPayload{})
	if got.Platform != model.PlatformBroadcast {
		t.Fatalf("expected platform defaulted from request, got %s", got.Platform)
	}
	if got.ProfileName != "Broadcast R128" {
		t.Fatalf("expected platform-keyed default name, got %q", got.ProfileName)
	}
}

func TestNormalizeHonorsResponsePlatformAndName(t *testing.T) {
	platform := "video"
	name := "Trailer Mix"
	got := Normalize(model.PlatformStreaming, paramsPayload{Platform: &platform, ProfileName: &name})
	if got.Platform != model.PlatformVideo {
		t.Fatalf("expected response platform honored, got %s", got.Platform)
	}
	if got.ProfileName != "Trailer Mix" {
		t.Fatalf("expected response profile name honored, got %q", got.ProfileName)
	}
}

func TestNormalizeIgnoresInvalidResponsePlatform(t *testing.T) {
	platform := "vinyl"
	got := Normalize(model.PlatformStreaming, paramsPayload{Platform: &platform})
	if got.Platform != model.PlatformStreaming {
		t.Fatalf("expected request platform kept for invalid response value, got %s", got.Platform)
	}
}
