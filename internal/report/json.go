package report

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/orasis/portgen/internal/models"
)

// flexInt tolerates the model emitting weights either as numbers or as quoted
// strings (with or without a trailing percent sign).
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(strings.Trim(string(data), `"`))
	s = strings.TrimSuffix(s, "%")
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("weight value %q is not numeric", string(data))
	}
	*f = flexInt(int(v))
	return nil
}

type wireAsset struct {
	AssetName      string  `json:"asset_name"`
	Category       string  `json:"category"`
	Region         string  `json:"region"`
	Weight         flexInt `json:"weight"`
	Horizon        string  `json:"horizon"`
	Recommendation string  `json:"recommendation"`
	Rationale      string  `json:"rationale"`
}

type wireSummary struct {
	ByCategory       map[string]flexInt `json:"by_category"`
	ByRegion         map[string]flexInt `json:"by_region"`
	ByRecommendation map[string]flexInt `json:"by_recommendation"`
}

type wireEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    *struct {
		ReportDate string             `json:"report_date"`
		Assets     []wireAsset        `json:"assets"`
		Summary    wireSummary        `json:"summary"`
		References []models.Reference `json:"references"`
	} `json:"data"`
}

// ParseModelJSON turns a raw model response into a PortfolioReport. The
// response is cleaned of markdown fences first; if the cleaned text still does
// not parse, the largest brace-delimited substring is tried as a fallback.
func ParseModelJSON(raw string) (models.PortfolioReport, error) {
	cleaned := stripFences(raw)

	var envelope wireEnvelope
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		fallback, ok := braceSubstring(cleaned)
		if !ok {
			return models.PortfolioReport{}, fmt.Errorf("response contains no JSON object: %w", err)
		}
		if err := json.Unmarshal([]byte(fallback), &envelope); err != nil {
			return models.PortfolioReport{}, fmt.Errorf("response is not valid JSON: %w", err)
		}
	}

	if envelope.Status == models.StatusError {
		return models.PortfolioReport{}, fmt.Errorf("model returned error status: %s", envelope.Message)
	}
	if envelope.Data == nil {
		return models.PortfolioReport{}, fmt.Errorf("response has no data object")
	}

	assets := make([]models.AssetPosition, 0, len(envelope.Data.Assets))
	for _, a := range envelope.Data.Assets {
		assets = append(assets, models.AssetPosition{
			AssetName:      a.AssetName,
			Category:       a.Category,
			Region:         a.Region,
			Weight:         int(a.Weight),
			Horizon:        a.Horizon,
			Recommendation: a.Recommendation,
			Rationale:      a.Rationale,
		})
	}

	return models.PortfolioReport{
		Status:     models.StatusSuccess,
		ReportDate: envelope.Data.ReportDate,
		Assets:     assets,
		Summary: models.AllocationSummary{
			ByCategory:       toIntMap(envelope.Data.Summary.ByCategory),
			ByRegion:         toIntMap(envelope.Data.Summary.ByRegion),
			ByRecommendation: toIntMap(envelope.Data.Summary.ByRecommendation),
		},
		References: envelope.Data.References,
	}, nil
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag, and trims stray quotes and backticks.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "```json"); i != -1 {
		s = s[i+len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	if i := strings.Index(s, "```"); i != -1 {
		s = s[:i]
	}
	return strings.Trim(s, "`'\" \n")
}

// braceSubstring returns the largest {...} span of s.
func braceSubstring(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

func toIntMap(m map[string]flexInt) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = int(v)
	}
	return out
}
