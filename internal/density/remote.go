package density

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/census-map/internal/model"
	"github.com/sells-group/census-map/internal/region"
	"github.com/sells-group/census-map/pkg/anthropic"
)

// ErrMalformedResponse is returned when the inference reply is empty, is not
// a JSON array of scores, or holds no score for a known district.
var ErrMalformedResponse = eris.New("density: malformed inference response")

const systemPrompt = `You are a Hong Kong census analyst. Given one attribute of a resident's
profile, estimate how concentrated people sharing that attribute and a similar
socioeconomic status are in each of the 18 districts.

Respond with a JSON array only, no prose. Each element:
{"id": "<district code>", "density": <number 0-100>, "analysis": "<brief reason>"}

A high density means a high concentration of similar residents. Scores are
relative and do not need to sum to 100.`

// RemoteOptions configures the inference request.
type RemoteOptions struct {
	Model     string
	MaxTokens int64
}

// RemoteSource asks the inference service for district densities. It makes
// exactly one call per fetch.
type RemoteSource struct {
	client anthropic.Client
	opts   RemoteOptions
	codes  []string
	known  map[string]bool
}

// NewRemoteSource creates a RemoteSource scoring the districts of cat.
func NewRemoteSource(client anthropic.Client, cat *region.Catalog, opts RemoteOptions) *RemoteSource {
	if opts.Model == "" {
		opts.Model = "claude-haiku-4-5-20251001"
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 2048
	}
	codes := cat.ParentIDs()
	known := make(map[string]bool, len(codes))
	for _, c := range codes {
		known[c] = true
	}
	return &RemoteSource{client: client, opts: opts, codes: codes, known: known}
}

// FetchDensities implements Source.
func (s *RemoteSource) FetchDensities(ctx context.Context, profile model.Profile, attr model.Attribute) ([]model.DensityScore, error) {
	req := anthropic.MessageRequest{
		Model:     s.opts.Model,
		MaxTokens: s.opts.MaxTokens,
		System:    anthropic.CachedSystem(systemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: s.buildPrompt(profile, attr)},
		},
	}

	resp, err := s.client.CreateMessage(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "density: create message")
	}
	resp.Usage.LogCost(s.opts.Model, attr.Key)

	return parseScores(resp.Text(), s.known)
}

func (s *RemoteSource) buildPrompt(profile model.Profile, attr model.Attribute) string {
	value, _ := profile.Value(attr.Key)

	var b strings.Builder
	b.WriteString("Analyze this Hong Kong census profile:\n")
	fmt.Fprintf(&b, "- %s: %s\n", attr.Key, value)
	fmt.Fprintf(&b, "- Age: %s\n", profile.Age)
	fmt.Fprintf(&b, "- Occupation/Housing: %s, %s\n\n", profile.Occupation, profile.HousingType)
	fmt.Fprintf(&b, "Determine the density distribution (0-100) for this specific demographic group across the %d districts.\n", len(s.codes))
	fmt.Fprintf(&b, "High density = high concentration of people with similar %s and socioeconomic status.\n\n", attr.Key)
	fmt.Fprintf(&b, "Districts: %s.", strings.Join(s.codes, ", "))
	return b.String()
}

type rawScore struct {
	ID       string   `json:"id"`
	Density  *float64 `json:"density"`
	Analysis string   `json:"analysis"`
}

// parseScores decodes the reply. Unknown ids and entries without a density
// are dropped, densities are clamped and the first entry per id wins.
func parseScores(text string, known map[string]bool) ([]model.DensityScore, error) {
	text = cleanJSONArray(text)
	if text == "" {
		return nil, eris.Wrap(ErrMalformedResponse, "empty text")
	}

	var raw []rawScore
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, eris.Wrapf(ErrMalformedResponse, "decode: %v", err)
	}

	seen := make(map[string]bool, len(raw))
	out := make([]model.DensityScore, 0, len(raw))
	for _, r := range raw {
		id := strings.ToUpper(strings.TrimSpace(r.ID))
		if !known[id] || seen[id] || r.Density == nil {
			continue
		}
		seen[id] = true
		out = append(out, model.DensityScore{
			RegionID: id,
			Density:  model.ClampDensity(*r.Density),
			Analysis: strings.TrimSpace(r.Analysis),
		})
	}
	if len(out) == 0 {
		return nil, eris.Wrap(ErrMalformedResponse, "no known districts")
	}
	return out, nil
}

// cleanJSONArray strips markdown code fences and any prose around the
// outermost JSON array.
func cleanJSONArray(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
