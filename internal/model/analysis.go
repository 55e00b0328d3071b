package model

// Flow identifies which analysis flow produced a result.
type Flow string

const (
	FlowSnapshot Flow = "snapshot"
	FlowVerdict  Flow = "verdict"
)

// Deal quality verdict values for the snapshot flow.
const (
	DealVerdictStrongYes = "strong_yes"
	DealVerdictYes       = "yes"
	DealVerdictMaybe     = "maybe"
	DealVerdictNo        = "no"
)

// DealVerdicts lists the declared snapshot deal-quality verdicts.
var DealVerdicts = []string{DealVerdictStrongYes, DealVerdictYes, DealVerdictMaybe, DealVerdictNo}

// Stages lists the declared company stage tags.
var Stages = []string{"pre_seed", "seed", "series_a", "series_b_plus", SignalUnknown}

// Sectors lists the declared sector tags.
var Sectors = []string{
	"saas", "fintech", "ai", "marketplace", "healthtech",
	"consumer", "deeptech", "climate", "other", SignalUnknown,
}

// DealQuality is the snapshot scoring block.
type DealQuality struct {
	Score   int    `json:"score_0_100"`
	Verdict string `json:"verdict"`
}

// RevenueTag summarizes stated revenue, when the deck disclosed any.
type RevenueTag struct {
	Known    bool   `json:"known"`
	Amount   string `json:"amount,omitempty"`
	Currency string `json:"currency,omitempty"`
	Period   string `json:"period,omitempty"`
}

// AskTag summarizes the raise the deck is asking for, when disclosed.
type AskTag struct {
	Known    bool   `json:"known"`
	Amount   string `json:"amount,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// SnapshotTags is the coarse tag block of a snapshot result.
type SnapshotTags struct {
	Stage        string     `json:"stage"`
	Sector       string     `json:"sector"`
	Geography    string     `json:"geography"`
	Revenue      RevenueTag `json:"revenue"`
	Ask          AskTag     `json:"ask"`
	TractionTags []string   `json:"traction_tags"`
}

// SnapshotResult is the fast-flow analysis output. After normalization every
// array field is non-nil and every enum field holds a declared value.
type SnapshotResult struct {
	CompanyName  string       `json:"company_name"`
	Tagline      string       `json:"tagline"`
	DealQuality  DealQuality  `json:"deal_quality"`
	Debrief      string       `json:"debrief"`
	Tags         SnapshotTags `json:"tags"`
	KeyStrengths []string     `json:"key_strengths"`
	KeyRisks     []string     `json:"key_risks"`
}

// Readiness levels for the verdict flow.
const (
	ReadinessLow    = "LOW"
	ReadinessMedium = "MEDIUM"
	ReadinessHigh   = "HIGH"
)

// ReadinessLevels lists the declared readiness values.
var ReadinessLevels = []string{ReadinessLow, ReadinessMedium, ReadinessHigh}

// ConcernCategories lists the declared objection categories used for
// concerns, strengths, and the IC stopping point.
var ConcernCategories = []string{
	"team", "market", "product", "traction", "business_model", "competition", "other",
}

// ICStoppingPoints is ConcernCategories plus "none" for deals with no
// projected stall.
var ICStoppingPoints = append([]string{"none"}, ConcernCategories...)

// Concern is a single flagged issue in a verdict result.
type Concern struct {
	Text       string `json:"text"`
	Category   string `json:"category"`
	VCQuote    string `json:"vcQuote,omitempty"`
	TeaserLine string `json:"teaserLine"`
}

// Strength is a single recognized positive in a verdict result.
type Strength struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// NarrativeTransformation holds the before/after pitch framing.
type NarrativeTransformation struct {
	CurrentNarrative     string `json:"currentNarrative"`
	TransformedNarrative string `json:"transformedNarrative"`
}

// VerdictResult is the deep-flow analysis output. Field casing follows the
// consuming product's contract.
type VerdictResult struct {
	Verdict                 string                  `json:"verdict"`
	ReadinessLevel          string                  `json:"readinessLevel"`
	ReadinessRationale      string                  `json:"readinessRationale"`
	RulingStatement         string                  `json:"rulingStatement"`
	KillerQuestion          string                  `json:"killerQuestion"`
	FrameworkScore          int                     `json:"frameworkScore"`
	CriteriaCleared         int                     `json:"criteriaCleared"`
	ICStoppingPoint         string                  `json:"icStoppingPoint"`
	Concerns                []Concern               `json:"concerns"`
	Strengths               []Strength              `json:"strengths"`
	MarketInsight           string                  `json:"marketInsight"`
	VCFrameworkCheck        string                  `json:"vcFrameworkCheck"`
	InevitabilityStatement  string                  `json:"inevitabilityStatement"`
	NarrativeTransformation NarrativeTransformation `json:"narrativeTransformation"`
	FounderProfile          FounderProfile          `json:"founderProfile"`
	HiddenIssuesCount       int                     `json:"hiddenIssuesCount"`
}

// AnalysisMeta is the advisory block returned alongside every successful
// result.
type AnalysisMeta struct {
	Flow     Flow                  `json:"flow"`
	Signals  ClassificationSignals `json:"signals"`
	Profile  FounderProfile        `json:"founder_profile,omitempty"`
	Fallback bool                  `json:"fallback,omitempty"`
	Model    string                `json:"model,omitempty"`
}
