package config

// AgentTypeSales is the only agent type managed by this console. The record
// store is keyed by (organization_id, agent_type) so other agent families can
// coexist in the same tables.
const AgentTypeSales = "sales"

// Supported primary languages
const (
	LanguageRU = "ru"
	LanguageEN = "en"
)

// Lead temperatures used by scoring criteria. The criteria document is a total
// mapping over these three values.
const (
	TemperatureHot  = "hot"
	TemperatureWarm = "warm"
	TemperatureCold = "cold"
)

// BANT field keys
const (
	BANTNeed      = "need"
	BANTTimeline  = "timeline"
	BANTBudget    = "budget"
	BANTAuthority = "authority"
)

// Call types the CTA is allowed to offer
const (
	CallTypePhone      = "phone"
	CallTypeGoogleMeet = "google_meet"
	CallTypeZoom       = "zoom"
	CallTypeWhatsApp   = "whatsapp"
)

// CTA numeric bounds
const (
	MinIterationsBeforeCTA = 1
	MaxIterationsBeforeCTA = 20
	MinFollowUpHours       = 1
	MaxFollowUpHours       = 72
)

// DefaultBANTOrder is the canonical BANT presentation sequence. It encodes the
// methodology itself and must never be silently reordered.
var DefaultBANTOrder = []string{BANTNeed, BANTTimeline, BANTBudget, BANTAuthority}

// SalesConfigData is the full sales agent configuration document for one
// organization. The document is bilingual: *Primary fields carry text in the
// organization's primary language, *EN fields carry the English variant.
//
// A stored record may be sparse (older schema revisions); Materialize turns
// any sparse document into a total one.
type SalesConfigData struct {
	// Identity
	CompanyName        string `json:"company_name"`
	AgentName          string `json:"agent_name"`
	CompanyDescription string `json:"company_description"`
	EscalationEmail    string `json:"escalation_email"`
	EscalationPhone    string `json:"escalation_phone"`

	// Localization
	PrimaryLanguage    string   `json:"primary_language"`
	SupportedLanguages []string `json:"supported_languages"`

	// Qualification flow. Order is the ask order and is preserved across
	// save/load. IDs are opaque, unique within the sequence and never reused
	// after a deletion.
	QualificationQuestions []QualificationQuestion `json:"qualification_questions"`

	ScoringCriteria   *ScoringCriteria   `json:"scoring_criteria"`
	CTASettings       *CTASettings       `json:"cta_settings"`
	BANTQualification *BANTQualification `json:"bant_qualification"`

	EscalationTriggers *EscalationTriggers `json:"escalation_triggers"`
	AgentBehavior      *AgentBehavior      `json:"agent_behavior"`

	// SalesReps are opaque contact records; the console passes them through
	// untouched.
	SalesReps []map[string]interface{} `json:"sales_reps"`

	HubspotIntegration *HubspotIntegration `json:"hubspot_integration"`
	GreetingMessages   *GreetingMessages   `json:"greeting_messages"`

	// Hours after which a human-escalated conversation automatically returns
	// to the agent.
	HITLAutoReleaseHours int `json:"hitl_auto_release_hours"`

	// Prompt template overrides. Empty string means "use system default";
	// there is no absent-vs-empty distinction at the storage layer.
	SystemPromptTemplate string `json:"system_prompt_template"`
	EnglishAddonTemplate string `json:"english_addon_template"`
}

// QualificationQuestion is one entry of the ordered qualification sequence.
type QualificationQuestion struct {
	ID              string `json:"id"`
	QuestionPrimary string `json:"question_primary"`
	QuestionEN      string `json:"question_en"`
}

// ScoringCriterion describes one lead temperature.
type ScoringCriterion struct {
	CriteriaPrimary string `json:"criteria_primary"`
	CriteriaEN      string `json:"criteria_en"`
}

// ScoringCriteria maps every lead temperature to its criterion. All three keys
// are always present after Materialize; a missing key materializes to empty
// strings, not to nil.
type ScoringCriteria struct {
	Hot  *ScoringCriterion `json:"hot"`
	Warm *ScoringCriterion `json:"warm"`
	Cold *ScoringCriterion `json:"cold"`
}

// CTASettings controls when and how the agent pushes for a call or a purchase.
type CTASettings struct {
	MessagePrimary         string   `json:"message_primary"`
	MessageEN              string   `json:"message_en"`
	MaxIterationsBeforeCTA int      `json:"max_iterations_before_cta"`
	FollowUpHours          int      `json:"follow_up_hours"`
	OfferCallTypes         []string `json:"offer_call_types"`
	PurchaseURL            string   `json:"purchase_url"`
	PurchaseCTAPrimary     string   `json:"purchase_cta_primary"`
	PurchaseCTAEN          string   `json:"purchase_cta_en"`
}

// BANTField is the question configuration for one BANT dimension.
type BANTField struct {
	QuestionPrimary string `json:"question_primary"`
	QuestionEN      string `json:"question_en"`
	Required        bool   `json:"required"`
}

// BANTQualification holds the four fixed BANT dimensions plus their
// presentation order. The fixed fields make an unknown BANT key
// unrepresentable.
type BANTQualification struct {
	Need      *BANTField `json:"need"`
	Timeline  *BANTField `json:"timeline"`
	Budget    *BANTField `json:"budget"`
	Authority *BANTField `json:"authority"`

	// QuestionOrder is a permutation of the four BANT keys.
	QuestionOrder []string `json:"question_order"`
}

// Field returns the configuration for a BANT key, or nil for an unknown key.
func (b *BANTQualification) Field(key string) *BANTField {
	if b == nil {
		return nil
	}
	switch key {
	case BANTNeed:
		return b.Need
	case BANTTimeline:
		return b.Timeline
	case BANTBudget:
		return b.Budget
	case BANTAuthority:
		return b.Authority
	}
	return nil
}

// EscalationTriggers is the set of named conditions that hand a conversation
// over to a human, plus the VIP keyword heuristic.
type EscalationTriggers struct {
	ManualIntervention  bool `json:"manual_intervention"`
	ExplicitRequest     bool `json:"explicit_request"`
	AgentError          bool `json:"agent_error"`
	IrrelevantQuestions bool `json:"irrelevant_questions"`
	ViolenceThreats     bool `json:"violence_threats"`
	CompetitorMentions  bool `json:"competitor_mentions"`
	VIPDetection        bool `json:"vip_detection"`

	VIPKeywords        []string `json:"vip_keywords"`
	VIPVolumeThreshold string   `json:"vip_volume_threshold"`
}

// AgentBehavior controls bot identity disclosure.
type AgentBehavior struct {
	DiscloseBotIdentity         bool   `json:"disclose_bot_identity"`
	BotDisclosureMessagePrimary string `json:"bot_disclosure_message_primary"`
	BotDisclosureMessageEN      string `json:"bot_disclosure_message_en"`
}

// HubspotIntegration is an opaque pass-through flag set for the CRM sync.
type HubspotIntegration struct {
	Enabled           bool `json:"enabled"`
	SyncAsUnqualified bool `json:"sync_as_unqualified"`
}

// GreetingMessages is the opening message pair.
type GreetingMessages struct {
	Primary string `json:"primary"`
	EN      string `json:"en"`
}
