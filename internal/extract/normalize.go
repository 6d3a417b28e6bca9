package extract

import (
	"sort"

	"github.com/orasis/portgen/internal/models"
)

const (
	// syntheticRegionPct is assigned to each injected region before
	// renormalization.
	syntheticRegionPct = 2
	// minRegionCount is the minimum regional diversity the summary must show.
	minRegionCount = 3
)

// buildSummary aggregates positions into category/region/recommendation
// breakdowns, injects missing major regions when diversity is too low, and
// renormalizes every breakdown to total exactly 100.
func buildSummary(assets []models.AssetPosition) models.AllocationSummary {
	byCategory := make(map[string]int)
	byRegion := make(map[string]int)
	byRecommendation := make(map[string]int)

	for _, a := range assets {
		byCategory[a.Category] += a.Weight
		byRegion[a.Region] += a.Weight
		byRecommendation[a.Recommendation] += a.Weight
	}

	if sum(byRegion) > 0 && len(byRegion) < minRegionCount {
		for _, region := range majorRegions {
			if len(byRegion) >= minRegionCount {
				break
			}
			if _, ok := byRegion[region]; !ok {
				byRegion[region] = syntheticRegionPct
			}
		}
	}

	return models.AllocationSummary{
		ByCategory:       renormalize(byCategory),
		ByRegion:         renormalize(byRegion),
		ByRecommendation: renormalize(byRecommendation),
	}
}

// renormalize scales the breakdown so its values total exactly 100:
// proportional scaling with the rounding remainder assigned to the largest
// bucket. A zero-total breakdown is returned unchanged since there is nothing
// to scale.
func renormalize(breakdown map[string]int) map[string]int {
	total := sum(breakdown)
	if total == 0 || total == 100 {
		return breakdown
	}

	keys := make([]string, 0, len(breakdown))
	for k := range breakdown {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	scaled := make(map[string]int, len(breakdown))
	scaledTotal := 0
	for _, k := range keys {
		v := breakdown[k] * 100 / total
		scaled[k] = v
		scaledTotal += v
	}

	// Assign the remainder to the largest bucket; ties break on key order so
	// the result is deterministic.
	if remainder := 100 - scaledTotal; remainder != 0 {
		largest := keys[0]
		for _, k := range keys[1:] {
			if scaled[k] > scaled[largest] {
				largest = k
			}
		}
		scaled[largest] += remainder
	}

	return scaled
}

func sum(m map[string]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}
