package models

// Section is one named block of generated report prose. Sections are
// immutable once generated; the pipeline owns them in a fixed order.
type Section struct {
	Name    string
	Content string
}

// Horizon labels used across prompts and extraction. The model is instructed
// to use these exact strings; extraction keeps whatever the table says.
const (
	HorizonShort     = "Short (1-3M)"
	HorizonMedium    = "Medium (3-6M)"
	HorizonLong      = "Long (6-12M)"
	HorizonStrategic = "Strategic (12M+)"
)

// Report status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// AssetPosition is one row of the structured portfolio allocation table.
type AssetPosition struct {
	AssetName      string `json:"asset_name"`
	Category       string `json:"category"`
	Region         string `json:"region"`
	Weight         int    `json:"weight"` // integer percent
	Horizon        string `json:"horizon"`
	Recommendation string `json:"recommendation"`
	Rationale      string `json:"rationale"`
}

// AllocationSummary breaks the portfolio down by label; each map is expected
// to sum to 100 after renormalization.
type AllocationSummary struct {
	ByCategory       map[string]int `json:"by_category"`
	ByRegion         map[string]int `json:"by_region"`
	ByRecommendation map[string]int `json:"by_recommendation"`
}

// Reference is one cited source in the structured report data.
type Reference struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Author    string `json:"author"`
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	Date      string `json:"date"`
	URL       string `json:"url,omitempty"`
}

// PortfolioReport is the final structured artifact written alongside the
// markdown report.
type PortfolioReport struct {
	Status     string            `json:"status"`
	Message    string            `json:"message,omitempty"`
	ReportDate string            `json:"report_date"`
	Assets     []AssetPosition   `json:"assets"`
	Summary    AllocationSummary `json:"summary"`
	References []Reference       `json:"references,omitempty"`
}

// TotalWeight returns the sum of all position weights.
func (p PortfolioReport) TotalWeight() int {
	total := 0
	for _, a := range p.Assets {
		total += a.Weight
	}
	return total
}

// LongWeight sums the weight of positions whose recommendation reads long
// (Buy side). Used only for the advisory long/short mix warning.
func (p PortfolioReport) LongWeight() int {
	total := 0
	for _, a := range p.Assets {
		switch a.Recommendation {
		case "Strong Buy", "Buy", "Hold":
			total += a.Weight
		}
	}
	return total
}
