package model

// CompanyContext holds the free-text signals supplied with a verdict request.
// Every field is optional; absent fields are omitted from prompts, never
// defaulted to placeholder text.
type CompanyContext struct {
	CompanyID            string `json:"company_id,omitempty"`
	CompanyName          string `json:"company_name,omitempty"`
	Description          string `json:"description,omitempty"`
	Problem              string `json:"problem,omitempty"`
	TargetCustomer       string `json:"target_customer,omitempty"`
	MarketSize           string `json:"market_size,omitempty"`
	Traction             string `json:"traction,omitempty"`
	CompetitiveAdvantage string `json:"competitive_advantage,omitempty"`
	RevenueModel         string `json:"revenue_model,omitempty"`
	GoToMarket           string `json:"go_to_market,omitempty"`
	FounderBackground    string `json:"founder_background,omitempty"`
	WhyNow               string `json:"why_now,omitempty"`
	Stage                string `json:"stage,omitempty"`
	Category             string `json:"category,omitempty"`
	// DeckText is pre-parsed pitch deck text, when the caller already ran
	// extraction upstream.
	DeckText string `json:"deck_text,omitempty"`
}

// SignalUnknown is the valid absent value for classification signals.
// Unknown is an expected state, not an error.
const SignalUnknown = "unknown"

// ClassificationSignals are the coarse, advisory signals obtained from the
// classification stage. Always present in downstream context, even when both
// values are unknown.
type ClassificationSignals struct {
	Stage  string `json:"stage"`
	Sector string `json:"sector"`
}

// UnknownSignals returns the degraded signal pair used when classification
// fails or is skipped.
func UnknownSignals() ClassificationSignals {
	return ClassificationSignals{Stage: SignalUnknown, Sector: SignalUnknown}
}
