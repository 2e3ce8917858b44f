package params

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/masterdesk/api/internal/client"
	"github.com/masterdesk/api/internal/model"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
	maxSupplementLen   = 500
)

// systemInstruction is the fixed prescription the generator is asked to
// fill in. It never varies per request.
const systemInstruction = `You are a mastering engineer. Produce DSP parameters for a five-stage mastering chain:
1. Input trim: set inputTrimDb so the compressor is driven at a sensible level.
2. Compressor: compThreshold (dBFS), compRatio, attackMs, releaseMs for gentle glue.
3. Optional EQ: two shelving bands (eqLowHz/eqLowDb/eqLowQ, eqHighHz/eqHighDb/eqHighQ).
4. Limiter: limiterCeiling (dBTP), limiterLookahead (ms), limiterRelease (ms).
5. Verification targets: targetLufs and targetPeak for the delivery platform.
Respond with a single strict JSON object containing exactly these numeric fields plus
"platform" and a human-readable "profileName". No prose, no markdown, no code fences.`

// Generator obtains MasteringParameters from the LLM endpoint, retrying
// transient failures with quadratic backoff and normalizing whatever it
// gets against the platform preset.
type Generator struct {
	llm         client.ChatCompleter
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(time.Duration)
}

// NewGenerator creates a generator. maxAttempts <= 0 and baseDelay <= 0
// fall back to the defaults (3 attempts, 500ms base).
func NewGenerator(llm client.ChatCompleter, maxAttempts int, baseDelay time.Duration) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}
	return &Generator{
		llm:         llm,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		sleep:       time.Sleep,
	}
}

// Generate requests parameters for the given metrics and platform. The
// returned parameters are always complete: present response fields win,
// everything else comes from the platform preset. All attempts failing
// surfaces the final attempt's error.
func (g *Generator) Generate(ctx context.Context, req *model.GenerateParamsRequest) (*model.MasteringParameters, error) {
	userPrompt := buildUserPrompt(req)

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		raw, err := g.llm.ChatCompletion(ctx, systemInstruction, userPrompt)
		if err == nil {
			var payload paramsPayload
			payload, err = parseResponse(raw)
			if err == nil {
				result := Normalize(req.Platform, payload)
				return &result, nil
			}
		}

		lastErr = err
		if attempt < g.maxAttempts {
			log.Printf("Parameter generation attempt %d/%d failed: %v", attempt, g.maxAttempts, err)
			g.sleep(g.baseDelay * time.Duration(attempt*attempt))
		}
	}

	return nil, fmt.Errorf("parameter generation failed after %d attempts: %w", g.maxAttempts, lastErr)
}

// buildUserPrompt renders the user turn: measured state, target state,
// platform, and an optional length-capped free-text supplement.
func buildUserPrompt(req *model.GenerateParamsRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current metrics: LUFS=%s, truePeak=%s, crest=%s.\n",
		formatMetric(req.CurrentMetrics.LUFS),
		formatMetric(req.CurrentMetrics.TruePeak),
		formatMetric(req.CurrentMetrics.Crest))
	fmt.Fprintf(&b, "Target metrics: LUFS=%.1f, truePeak=%.1f.\n", req.TargetMetrics.LUFS, req.TargetMetrics.TruePeak)
	fmt.Fprintf(&b, "Delivery platform: %s.\n", req.Platform)

	if s := strings.TrimSpace(req.PromptSupplement); s != "" {
		if len(s) > maxSupplementLen {
			s = s[:maxSupplementLen]
		}
		fmt.Fprintf(&b, "Additional notes: %s\n", s)
	}

	b.WriteString("Return the JSON object only.")
	return b.String()
}

func formatMetric(v *float64) string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprintf("%.1f", *v)
}

// parseResponse strips any code-fence markup, decodes the JSON, and
// validates it field-by-field. Any failure makes the attempt retryable.
func parseResponse(raw string) (paramsPayload, error) {
	var payload paramsPayload

	cleaned := stripCodeFence(raw)
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return payload, fmt.Errorf("response is not valid JSON: %w", err)
	}
	if err := validatePayload(payload); err != nil {
		return payload, err
	}
	return payload, nil
}

// validatePayload enforces the strict schema: every DSP knob present and
// numeric, platform (when present) in the enumerated set.
func validatePayload(p paramsPayload) error {
	required := map[string]*float64{
		"inputTrimDb":      p.InputTrimDb,
		"compThreshold":    p.CompThreshold,
		"compRatio":        p.CompRatio,
		"attackMs":         p.AttackMs,
		"releaseMs":        p.ReleaseMs,
		"eqLowHz":          p.EqLowHz,
		"eqLowDb":          p.EqLowDb,
		"eqLowQ":           p.EqLowQ,
		"eqHighHz":         p.EqHighHz,
		"eqHighDb":         p.EqHighDb,
		"eqHighQ":          p.EqHighQ,
		"limiterCeiling":   p.LimiterCeiling,
		"limiterLookahead": p.LimiterLookahead,
		"limiterRelease":   p.LimiterRelease,
		"targetLufs":       p.TargetLufs,
		"targetPeak":       p.TargetPeak,
	}
	for name, v := range required {
		if v == nil {
			return fmt.Errorf("response missing required field %q", name)
		}
	}
	if p.Platform != nil && !model.IsValidPlatform(model.Platform(*p.Platform)) {
		return fmt.Errorf("response platform %q is not a supported target", *p.Platform)
	}
	return nil
}

// stripCodeFence removes surrounding ``` markup that models sometimes
// wrap JSON in despite being told not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag on the opening fence line.
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
