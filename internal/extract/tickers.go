package extract

import "strings"

// AssetClassification maps a ticker to its category and region labels.
type AssetClassification struct {
	Category string
	Region   string
}

// Canonical category and region buckets. Scraped labels are coalesced into
// these via substring matching before summaries are built.
const (
	CategoryShippingEquity = "Shipping Equity"
	CategoryEnergyEquity   = "Energy Equity"
	CategoryCommodity      = "Commodity"
	CategoryBond           = "Bond"
	CategoryAgriculture    = "Agriculture"
	CategoryInfrastructure = "Infrastructure"
	CategoryETF            = "ETF"
	CategoryUncategorized  = "Uncategorized"

	RegionNorthAmerica = "North America"
	RegionEurope       = "Europe"
	RegionAsiaPacific  = "Asia-Pacific"
	RegionLatinAmerica = "Latin America"
	RegionMiddleEast   = "Middle East"
	RegionGlobal       = "Global"
)

// majorRegions are injected synthetically when the scraped portfolio covers
// too few regions; order matters for deterministic output.
var majorRegions = []string{RegionNorthAmerica, RegionEurope, RegionAsiaPacific}

// DefaultTickerTable returns the built-in ticker classification table. The
// extractor takes the table as input so alternative universes can be swapped
// in without code changes.
func DefaultTickerTable() map[string]AssetClassification {
	return map[string]AssetClassification{
		// Shipping equities
		"STNG": {CategoryShippingEquity, RegionGlobal},
		"FRO":  {CategoryShippingEquity, RegionEurope},
		"GOGL": {CategoryShippingEquity, RegionGlobal},
		"SBLK": {CategoryShippingEquity, RegionGlobal},
		"GSL":  {CategoryShippingEquity, RegionGlobal},
		"DAC":  {CategoryShippingEquity, RegionEurope},
		"ZIM":  {CategoryShippingEquity, RegionMiddleEast},
		"MATX": {CategoryShippingEquity, RegionNorthAmerica},
		"FLNG": {CategoryShippingEquity, RegionGlobal},
		"GLNG": {CategoryShippingEquity, RegionGlobal},
		"TRMD": {CategoryShippingEquity, RegionEurope},
		"INSW": {CategoryShippingEquity, RegionNorthAmerica},
		"DHT":  {CategoryShippingEquity, RegionGlobal},
		"EURN": {CategoryShippingEquity, RegionEurope},
		"KEX":  {CategoryShippingEquity, RegionNorthAmerica},

		// Energy
		"XLE": {CategoryEnergyEquity, RegionNorthAmerica},
		"XOM": {CategoryEnergyEquity, RegionNorthAmerica},
		"CVX": {CategoryEnergyEquity, RegionNorthAmerica},
		"SHEL": {CategoryEnergyEquity, RegionEurope},
		"TTE": {CategoryEnergyEquity, RegionEurope},
		"BP":  {CategoryEnergyEquity, RegionEurope},
		"LNG": {CategoryEnergyEquity, RegionNorthAmerica},
		"UNG": {CategoryCommodity, RegionNorthAmerica},
		"USO": {CategoryCommodity, RegionGlobal},
		"BNO": {CategoryCommodity, RegionGlobal},

		// Commodities / miners
		"RIO":  {CategoryCommodity, RegionAsiaPacific},
		"BHP":  {CategoryCommodity, RegionAsiaPacific},
		"VALE": {CategoryCommodity, RegionLatinAmerica},
		"FCX":  {CategoryCommodity, RegionNorthAmerica},
		"SCCO": {CategoryCommodity, RegionLatinAmerica},
		"CPER": {CategoryCommodity, RegionGlobal},
		"GLD":  {CategoryCommodity, RegionGlobal},
		"SLV":  {CategoryCommodity, RegionGlobal},

		// Agriculture
		"ADM":  {CategoryAgriculture, RegionNorthAmerica},
		"BG":   {CategoryAgriculture, RegionNorthAmerica},
		"DBA":  {CategoryAgriculture, RegionGlobal},
		"WEAT": {CategoryAgriculture, RegionGlobal},
		"CORN": {CategoryAgriculture, RegionNorthAmerica},

		// Bonds / credit
		"TLT": {CategoryBond, RegionNorthAmerica},
		"HYG": {CategoryBond, RegionNorthAmerica},
		"LQD": {CategoryBond, RegionNorthAmerica},
		"EMB": {CategoryBond, RegionGlobal},

		// Infrastructure / broad ETFs
		"PAVE": {CategoryInfrastructure, RegionNorthAmerica},
		"IGF":  {CategoryInfrastructure, RegionGlobal},
		"SEA":  {CategoryETF, RegionGlobal},
		"BDRY": {CategoryETF, RegionGlobal},
		"FXI":  {CategoryETF, RegionAsiaPacific},
		"EWJ":  {CategoryETF, RegionAsiaPacific},
		"EEM":  {CategoryETF, RegionGlobal},
	}
}

// tickerRationales are static per-ticker fallback rationales used when no
// rationale can be scraped from the generated text.
var tickerRationales = map[string]string{
	"STNG": "Product tanker rates supported by ton-mile growth and a thin orderbook.",
	"GOGL": "Capesize earnings leverage to iron ore volumes and fleet supply discipline.",
	"SBLK": "Diversified dry bulk exposure with low cash breakeven levels.",
	"ZIM":  "Container spot-rate torque with elevated charter market volatility.",
	"GLNG": "LNG infrastructure upside tied to liquefaction capacity growth.",
	"FRO":  "Crude tanker exposure to lengthening trade routes and fleet aging.",
	"XLE":  "Integrated energy cash flows resilient across the price cycle.",
	"GLD":  "Portfolio hedge against inflation and geopolitical risk.",
	"TLT":  "Duration hedge against a growth slowdown scenario.",
	"FXI":  "China stimulus exposure through large-cap equities.",
	"DBA":  "Broad agricultural exposure amid tightening inventories.",
}

// categoryHeuristics maps uppercase substrings of an asset name to a
// canonical category. Checked in order.
var categoryHeuristics = []struct {
	Substring string
	Category  string
}{
	{"TANKER", CategoryShippingEquity},
	{"SHIPPING", CategoryShippingEquity},
	{"BULK", CategoryShippingEquity},
	{"CONTAINER", CategoryShippingEquity},
	{"MARITIME", CategoryShippingEquity},
	{"LNG CARRIER", CategoryShippingEquity},
	{"CRUDE", CategoryCommodity},
	{"OIL", CategoryEnergyEquity},
	{"GAS", CategoryEnergyEquity},
	{"ENERGY", CategoryEnergyEquity},
	{"LNG", CategoryEnergyEquity},
	{"COPPER", CategoryCommodity},
	{"IRON", CategoryCommodity},
	{"GOLD", CategoryCommodity},
	{"SILVER", CategoryCommodity},
	{"ALUMIN", CategoryCommodity},
	{"COMMODIT", CategoryCommodity},
	{"WHEAT", CategoryAgriculture},
	{"GRAIN", CategoryAgriculture},
	{"CORN", CategoryAgriculture},
	{"SOY", CategoryAgriculture},
	{"AGRICULT", CategoryAgriculture},
	{"BOND", CategoryBond},
	{"TREASURY", CategoryBond},
	{"CREDIT", CategoryBond},
	{"NOTE", CategoryBond},
	{"INFRASTRUCTURE", CategoryInfrastructure},
	{"PORT", CategoryInfrastructure},
	{"RAIL", CategoryInfrastructure},
	{"ETF", CategoryETF},
	{"INDEX", CategoryETF},
}

// regionHeuristics maps uppercase substrings of an asset name to a region.
var regionHeuristics = []struct {
	Substring string
	Region    string
}{
	{"CHINA", RegionAsiaPacific},
	{"NIKKEI", RegionAsiaPacific},
	{"JAPAN", RegionAsiaPacific},
	{"KOREA", RegionAsiaPacific},
	{"SINGAPORE", RegionAsiaPacific},
	{"AUSTRALIA", RegionAsiaPacific},
	{"INDIA", RegionAsiaPacific},
	{"ASIA", RegionAsiaPacific},
	{"EUROPE", RegionEurope},
	{"EURO", RegionEurope},
	{"NORWAY", RegionEurope},
	{"GREECE", RegionEurope},
	{"GREEK", RegionEurope},
	{"DANISH", RegionEurope},
	{"U.S.", RegionNorthAmerica},
	{"US ", RegionNorthAmerica},
	{"AMERICA", RegionNorthAmerica},
	{"CANADA", RegionNorthAmerica},
	{"BRAZIL", RegionLatinAmerica},
	{"CHILE", RegionLatinAmerica},
	{"PERU", RegionLatinAmerica},
	{"MIDDLE EAST", RegionMiddleEast},
	{"GULF", RegionMiddleEast},
	{"EMERGING", RegionGlobal},
	{"GLOBAL", RegionGlobal},
	{"WORLD", RegionGlobal},
}

// canonicalCategory coalesces a free-text category label into a canonical
// bucket. Unrecognized labels pass through unchanged so real information is
// never destroyed.
func canonicalCategory(label string) string {
	upper := strings.ToUpper(label)
	switch {
	case strings.Contains(upper, "SHIP"), strings.Contains(upper, "TANKER"), strings.Contains(upper, "BULK"), strings.Contains(upper, "CONTAINER"):
		return CategoryShippingEquity
	case strings.Contains(upper, "ENERG"), strings.Contains(upper, "OIL"), strings.Contains(upper, "GAS"), strings.Contains(upper, "LNG"):
		return CategoryEnergyEquity
	case strings.Contains(upper, "COMMODIT"), strings.Contains(upper, "METAL"), strings.Contains(upper, "GOLD"), strings.Contains(upper, "COPPER"), strings.Contains(upper, "IRON"):
		return CategoryCommodity
	case strings.Contains(upper, "BOND"), strings.Contains(upper, "CREDIT"), strings.Contains(upper, "FIXED INCOME"), strings.Contains(upper, "TREASUR"):
		return CategoryBond
	case strings.Contains(upper, "AGRI"), strings.Contains(upper, "GRAIN"), strings.Contains(upper, "FARM"):
		return CategoryAgriculture
	case strings.Contains(upper, "INFRA"), strings.Contains(upper, "PORT"), strings.Contains(upper, "LOGISTIC"):
		return CategoryInfrastructure
	case strings.Contains(upper, "ETF"), strings.Contains(upper, "FUND"), strings.Contains(upper, "INDEX"):
		return CategoryETF
	case label == "":
		return CategoryUncategorized
	}
	return label
}

// canonicalRegion coalesces a free-text region label into a canonical bucket.
func canonicalRegion(label string) string {
	upper := strings.ToUpper(label)
	switch {
	case strings.Contains(upper, "NORTH AMERICA"), strings.Contains(upper, "U.S"), strings.Contains(upper, "UNITED STATES"), strings.Contains(upper, "USA"), strings.Contains(upper, "CANADA"):
		return RegionNorthAmerica
	case strings.Contains(upper, "EUROPE"), strings.Contains(upper, "EU"), strings.Contains(upper, "NORDIC"), strings.Contains(upper, "UK"):
		return RegionEurope
	case strings.Contains(upper, "ASIA"), strings.Contains(upper, "PACIFIC"), strings.Contains(upper, "CHINA"), strings.Contains(upper, "JAPAN"):
		return RegionAsiaPacific
	case strings.Contains(upper, "LATIN"), strings.Contains(upper, "SOUTH AMERICA"), strings.Contains(upper, "BRAZIL"):
		return RegionLatinAmerica
	case strings.Contains(upper, "MIDDLE EAST"), strings.Contains(upper, "GULF"):
		return RegionMiddleEast
	case strings.Contains(upper, "GLOBAL"), strings.Contains(upper, "WORLD"), strings.Contains(upper, "INTERNATIONAL"), strings.Contains(upper, "EMERGING"):
		return RegionGlobal
	case label == "":
		return RegionGlobal
	}
	return label
}
