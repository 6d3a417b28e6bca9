package report

import "fmt"

// baseSystemPrompt frames every section-generation call.
const baseSystemPrompt = `You are a professional investment analyst at Orasis Capital, a hedge fund specializing in global macro and trade-related assets.
Your task is to create detailed investment portfolio analysis with data-backed research and specific source citations.

IMPORTANT CONSTRAINTS:
1. The ENTIRE report must be NO MORE than 13,000 words total. Optimize your content accordingly.
2. You MUST include a comprehensive summary table in the Executive Summary section.
3. Ensure all assertions are backed by specific data points or sources.
4. Use current data where available.`

// jsonSystemPrompt frames the dedicated structured-data call used when the
// portfolio data comes from the model rather than table extraction.
const jsonSystemPrompt = `You are a data structuring assistant for Orasis Capital.
Your task is to convert portfolio asset information into a structured JSON format.

You MUST respond with ONLY valid JSON, nothing else. No explanations, no other text, no code blocks, no backticks.

Be extremely precise in following the requested JSON structure and ensure all values add up correctly.`

// searchContextPreamble introduces the formatted search results appended as an
// extra user turn on each generation call.
const searchContextPreamble = "Here is the latest information from web searches:\n\n"

// searchQueries returns the upfront market-data queries run once per report.
// They cover the same ground the report sections do so every section call can
// share one search context.
func searchQueries() []string {
	return []string{
		// Global economy and trade
		"current global trade metrics and trends 2025",
		"global GDP growth forecast by region 2025",
		"international trade volumes by commodity 2025",
		"emerging markets economic outlook 2025",
		"global inflation rates and impact on trade 2025",
		"China trade policy and import/export volumes 2025",
		"supply chain disruptions and logistics trends 2025",

		// Shipping sector
		"container shipping rates and market trends 2025",
		"Baltic Dry Index latest values and forecasts 2025",
		"tanker shipping market rates and vessel utilization 2025",
		"VLCC spot rates and time charter rates 2025",
		"cape size vessel earnings and fleet growth 2025",
		"panamax and supramax market trends 2025",
		"LNG carrier market rates and orderbook 2025",
		"port congestion data and container throughput 2025",
		"shipping industry regulatory changes impact 2025",
		"IMO 2023 and emission regulations shipping impact 2025",

		// Energy markets
		"crude oil price forecasts and inventory levels 2025",
		"natural gas market supply demand balance 2025",
		"LNG market growth and trade flows 2025",
		"renewable energy investment trends 2025",
		"energy transition impact on shipping 2025",
		"bunker fuel prices and trends 2025",

		// Commodities
		"iron ore market prices and production data 2025",
		"copper supply demand balance and price forecasts 2025",
		"aluminum market trends and inventory levels 2025",
		"agricultural commodities trade flows 2025",
		"grain production forecasts and shipping demand 2025",
		"commodity futures market positioning 2025",

		// Financial markets
		"shipping company stock performance 2025",
		"global interest rates and bond market 2025",
		"currency exchange rates impact on shipping 2025",
		"shipping industry financing and debt levels 2025",
	}
}

// sectionSpec binds a section key to its display name and user prompt. The
// pipeline generates sections in slice order; portfolio items are produced
// separately between the shipping and benchmarking sections.
type sectionSpec struct {
	Key    string
	Name   string
	Prompt string
}

func executiveSummaryPrompt(reportDate string, positionsMin, positionsMax int) string {
	return fmt.Sprintf(`Generate an executive summary for the investment portfolio report.

Include current date (%s) and the title format specified previously.
Summarize the key findings, market outlook, and high-level portfolio strategy.
Keep it clear, concise, and data-driven with specific metrics.

CRITICAL REQUIREMENT: You MUST include a comprehensive summary table displaying ALL portfolio positions (strictly limited to %d-%d total positions).
This table MUST be properly formatted in markdown and include columns for:
- Asset/Ticker
- Position Type (Long/Short)
- Allocation %% (must sum to 100%%)
- Time Horizon
- Confidence Level

Remember that the entire report must not exceed 13,000 words total. This summary should be concise but comprehensive.

After the table, include a brief overview of asset allocations by category (shipping, commodities, energy, etc.).`,
		reportDate, positionsMin, positionsMax)
}

const globalEconomyPrompt = `Write a concise but comprehensive analysis (600-700 words) of Global Trade & Economy as part of a macroeconomic outlook section.
Include:
- Regional breakdowns and economic indicators with specific figures
- GDP growth projections by region with exact percentages
- Trade flow statistics with exact volumes and year-over-year changes
- Container throughput at major ports with specific TEU figures
- Supply chain metrics and logistics indicators
- Currency valuations and impacts on trade relationships
- Trade agreements and policy changes with implementation timelines
- Inflation rates across major economies with comparisons

Format in markdown starting with:
## Macroeconomic & Industry Outlook
### Global Trade & Economy

Include 5-7 specific sources (e.g., IMF, World Bank, WTO, UNCTAD, economic research firms, central banks) with publication dates.
Every assertion should be backed by data or a referenced source.

NOTE: Keep this section concise to ensure the entire report remains under the 13,000 word limit.`

const energyMarketsPrompt = `Write a concise but informative analysis (500-600 words) of Energy Markets as part of a macroeconomic outlook section.
Include:
- Oil markets: supply/demand balance with specific production figures, inventory levels, and price projections
- Natural Gas & LNG: capacity expansions with exact volumes, trade routes, and pricing dynamics
- Renewable Energy transition impacts with adoption rates and investment figures
- Energy infrastructure developments with capacity and timeline data
- OPEC+ and non-OPEC production quotas and compliance rates
- Refining margins and utilization rates across regions

Format in markdown starting with:
### Energy Markets

Include 4-5 specific sources with publication dates.
Every assertion should be backed by data or a referenced source.

NOTE: Keep this section concise to ensure the entire report remains under the 13,000 word limit.`

const commoditiesPrompt = `Write a concise but informative analysis (500-600 words) of Commodities Markets as part of a macroeconomic outlook section.
Include:
- Metals: supply/demand fundamentals for copper, iron ore, aluminum with production figures and inventory levels
- Agricultural: crop reports, weather impacts, inventory-to-use ratios with specific figures
- Supply chain dynamics and infrastructure constraints with quantitative impacts
- Futures market positioning and price forecasts with technical levels
- Industrial demand trends by region with consumption metrics
- Production costs and margin analysis across commodity sectors

Format in markdown starting with:
### Commodities

Include 4-5 specific sources (e.g., USDA, LME, SGX, commodity research firms, production reports) with publication dates.
Every assertion should be backed by data or a referenced source.

NOTE: Keep this section concise to ensure the entire report remains under the 13,000 word limit.`

const shippingPrompt = `Write a concise but informative analysis (700-800 words) of Shipping Sectors as part of a macroeconomic outlook section.
Include:
- Tankers: fleet growth percentages, orderbook trends, ton-mile demand with specific figures
- Dry Bulk: BDI analysis with specific index levels, vessel categories performance, and spot/time charter rates
- Containers: TEU capacity, port congestion metrics, charter rates with specific USD/day figures
- LNG carriers: liquefaction capacity growth, vessel utilization rates, market rates
- Fleet age profiles and scrapping rates across sectors
- Regulatory impacts (IMO 2023, EEXI, CII) with compliance costs
- Regional trade flow shifts with specific route data

Format in markdown starting with:
### Shipping Sectors

Include 5-6 specific sources (e.g., Clarksons, Drewry, Alphaliner, Baltic Exchange, ship brokers, shipping companies) with publication dates.
Every assertion should be backed by data or a referenced source.

NOTE: Keep this section concise to ensure the entire report remains under the 13,000 word limit.`

const benchmarkingPrompt = `Write a detailed Performance Benchmarking section (500+ words) for an investment portfolio.
Include:
- Detailed comparison to prior allocations with performance metrics
- Attribution analysis by sector and asset class with specific figures
- Risk-adjusted return calculations (Sharpe ratios, Sortino ratios, etc.)
- Benchmark comparisons (S&P 500, MSCI World, commodity indices, etc.)
- Performance during specific market regimes (high inflation, dollar strength, etc.)
- Factor attribution (value, momentum, quality, etc.)

Format in markdown starting with:
## Performance Benchmarking

Include at least 5-7 specific sources with publication dates.
Every assertion should be backed by data or a referenced source.`

const riskAssessmentPrompt = `Write a detailed Risk Assessment & Monitoring Guidelines section (1000+ words) for an investment portfolio.
Include:
- Detailed key risk factors by asset and overall portfolio
- VaR and stress test scenarios with specific loss potentials
- Correlation analysis between positions with correlation coefficients
- Monitoring framework with specific metrics and thresholds
- Hedging strategies for key risk factors
- Liquidity risk assessment by asset class
- Concentration risk analysis
- Regulatory and compliance risks

Format in markdown starting with:
## Risk Assessment & Monitoring Guidelines

Include at least 5-7 specific sources with publication dates.
Every assertion should be backed by data or a referenced source.`

const conclusionPrompt = `Write a concise Conclusion section with a comprehensive summary table of all portfolio recommendations.
The table should include:
- Asset name/ticker
- Category
- Region
- Position (Long/Short)
- Target allocation (%)
- Time horizon
- Confidence level
- Key rationale

Format in markdown starting with:
## Conclusion and Summary Recommendations

Follow the conclusion text with a properly formatted markdown table of all positions.

Include 3-5 specific sources with publication dates.`

const referencesPrompt = `Create a comprehensive References section with at least 30 specific sources used throughout the report.
Categorize sources by sector (Energy, Shipping, Commodities, etc.).
Include:
- Research reports
- Regulatory filings
- Industry publications
- Consultant reports
- Company presentations
- Economic data providers
- Academic papers

For each reference, include:
- Author/organization
- Title
- Publisher/journal/website
- Publication date
- URL if available

Format in markdown starting with:
## References

Group references by category.`

func assetListPrompt(count int) string {
	return fmt.Sprintf(`Create a list of %d diverse investment assets that would be suitable for a trade-focused multi-asset portfolio.
Include a mix of:
- Shipping equities (tankers, dry bulk, containers, LNG)
- Energy equities and ETFs
- Commodity producers and ETFs
- Bonds and credit instruments
- Agricultural assets
- Infrastructure assets related to global trade

For each asset, provide:
1. Full name with ticker
2. Asset class/category
3. Geographic focus
4. A key data point or metric justifying its inclusion

Format as a simple list with one asset per line, but include all the information above for each asset.`, count)
}

func assetAnalysisPrompt(asset string) string {
	return fmt.Sprintf(`Write a concise but comprehensive analysis (300-400 words) for the following asset as part of an investment portfolio:

%s

Include:
- Complete company/instrument background
- Detailed category description and market position
- Geographic exposure and regional dynamics
- Long/short positioning recommendation with specific entry/exit criteria
- Weight (percentage allocation) with justification
- Investment time horizon with milestone triggers
- Confidence level with supporting evidence
- Comprehensive data-backed rationale with multiple metrics
- Competitor analysis and relative value assessment
- Historical performance analysis
- Technical analysis indicators
- Valuation metrics compared to sector averages

Format in markdown starting with a clear header for the asset name.
Include 3-4 specific sources relevant to this asset with publication dates.
Every assertion should be backed by data or a referenced source.

NOTE: Please keep your analysis BRIEF but COMPREHENSIVE to ensure the entire report remains under the 13,000 word limit.`, asset)
}

// portfolioJSONPrompt asks for the structured data as bare JSON. The template
// shown to the model mirrors the wire format parsed by ParseModelJSON.
func portfolioJSONPrompt(assetList []string, reportDate string) string {
	assets := ""
	for _, a := range assetList {
		assets += "- " + a + "\n"
	}

	return fmt.Sprintf(`Based on the following asset list, create a complete structured JSON object in the specified format.

Asset list:
%s
Current date: %s

You MUST return ONLY valid JSON in the following structure, nothing else. No markdown code blocks, no backticks, no explanations:

{
  "status": "success",
  "data": {
    "report_date": %q,
    "assets": [
      {
        "asset_name": "Full asset name including ticker",
        "category": "Asset category (Shipping Equity, Commodity, Bond, etc.)",
        "region": "Geographic region",
        "weight": "Numerical allocation percentage without %% sign",
        "horizon": "Time horizon (Short (1-3M), Medium (3-6M), Long (6-12M))",
        "recommendation": "Buy/Sell/Hold plus Long/Short",
        "rationale": "Brief 1-line rationale with key data point"
      }
    ],
    "summary": {
      "by_category": {"Category1": "Sum of weights for this category"},
      "by_region": {"Region1": "Sum of weights for this region"},
      "by_recommendation": {"Recommendation1": "Sum of weights for this recommendation"}
    },
    "references": [
      {
        "id": "ref1",
        "category": "Source category (Energy, Shipping, Economic, etc.)",
        "author": "Author or Organization",
        "title": "Publication title",
        "publisher": "Publisher/Journal/Website",
        "date": "Publication date",
        "url": "URL if available"
      }
    ]
  }
}

Ensure all assets add up to exactly 100%% and that the JSON is valid. Include at least 25 reputable references across different categories.`,
		assets, reportDate, reportDate)
}
