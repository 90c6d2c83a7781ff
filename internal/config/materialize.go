package config

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/ClareAI/astra-sales-console/pkg/logger"
	"go.uber.org/zap"
)

// Materialize turns a sparse configuration document into a total one: every
// field of the result holds a concrete value. The input may be nil (no record
// yet) or a record written by an older schema revision with keys missing.
//
// Present values are used verbatim; absent ones are substituted from
// DefaultSalesConfig. Materialize never fails and never mutates its input, and
// it is idempotent: Materialize(Materialize(x)) equals Materialize(x) up to
// generated question IDs, which are only minted for questions that lack one.
//
// Range and enum constraints are NOT enforced here; callers must run Validate
// before persisting a document.
func Materialize(partial *SalesConfigData) *SalesConfigData {
	defaults := DefaultSalesConfig()
	if partial == nil {
		return defaults
	}

	doc := deepCopy(partial)

	if doc.CompanyName == "" {
		doc.CompanyName = defaults.CompanyName
	}
	if doc.AgentName == "" {
		doc.AgentName = defaults.AgentName
	}
	if doc.PrimaryLanguage == "" {
		doc.PrimaryLanguage = defaults.PrimaryLanguage
	}
	if len(doc.SupportedLanguages) == 0 {
		doc.SupportedLanguages = defaults.SupportedLanguages
	}

	if doc.QualificationQuestions == nil {
		doc.QualificationQuestions = defaults.QualificationQuestions
	}
	for i := range doc.QualificationQuestions {
		if doc.QualificationQuestions[i].ID == "" {
			doc.QualificationQuestions[i].ID = uuid.NewString()
		}
	}

	if doc.ScoringCriteria == nil {
		doc.ScoringCriteria = defaults.ScoringCriteria
	} else {
		// The mapping is total over {hot, warm, cold}: a key missing from the
		// stored record becomes an empty criterion, never nil.
		if doc.ScoringCriteria.Hot == nil {
			doc.ScoringCriteria.Hot = &ScoringCriterion{}
		}
		if doc.ScoringCriteria.Warm == nil {
			doc.ScoringCriteria.Warm = &ScoringCriterion{}
		}
		if doc.ScoringCriteria.Cold == nil {
			doc.ScoringCriteria.Cold = &ScoringCriterion{}
		}
	}

	if doc.CTASettings == nil {
		doc.CTASettings = defaults.CTASettings
	} else {
		cta := doc.CTASettings
		if cta.MaxIterationsBeforeCTA == 0 {
			cta.MaxIterationsBeforeCTA = DefaultMaxIterationsBeforeCTA
		}
		if cta.FollowUpHours == 0 {
			cta.FollowUpHours = DefaultFollowUpHours
		}
		if cta.OfferCallTypes == nil {
			cta.OfferCallTypes = defaults.CTASettings.OfferCallTypes
		}
		if cta.MessagePrimary == "" {
			cta.MessagePrimary = defaults.CTASettings.MessagePrimary
		}
		if cta.MessageEN == "" {
			cta.MessageEN = defaults.CTASettings.MessageEN
		}
	}

	if doc.BANTQualification == nil {
		doc.BANTQualification = defaults.BANTQualification
	} else {
		bant := doc.BANTQualification
		if bant.Need == nil {
			bant.Need = defaults.BANTQualification.Need
		}
		if bant.Timeline == nil {
			bant.Timeline = defaults.BANTQualification.Timeline
		}
		if bant.Budget == nil {
			bant.Budget = defaults.BANTQualification.Budget
		}
		if bant.Authority == nil {
			bant.Authority = defaults.BANTQualification.Authority
		}
		if len(bant.QuestionOrder) == 0 {
			bant.QuestionOrder = append([]string(nil), DefaultBANTOrder...)
		}
	}

	if doc.EscalationTriggers == nil {
		doc.EscalationTriggers = defaults.EscalationTriggers
	} else {
		if doc.EscalationTriggers.VIPKeywords == nil {
			doc.EscalationTriggers.VIPKeywords = defaults.EscalationTriggers.VIPKeywords
		}
		if doc.EscalationTriggers.VIPVolumeThreshold == "" {
			doc.EscalationTriggers.VIPVolumeThreshold = defaults.EscalationTriggers.VIPVolumeThreshold
		}
	}

	if doc.AgentBehavior == nil {
		doc.AgentBehavior = defaults.AgentBehavior
	} else {
		if doc.AgentBehavior.BotDisclosureMessagePrimary == "" {
			doc.AgentBehavior.BotDisclosureMessagePrimary = defaults.AgentBehavior.BotDisclosureMessagePrimary
		}
		if doc.AgentBehavior.BotDisclosureMessageEN == "" {
			doc.AgentBehavior.BotDisclosureMessageEN = defaults.AgentBehavior.BotDisclosureMessageEN
		}
	}

	if doc.SalesReps == nil {
		doc.SalesReps = []map[string]interface{}{}
	}

	if doc.HubspotIntegration == nil {
		doc.HubspotIntegration = defaults.HubspotIntegration
	}

	if doc.GreetingMessages == nil {
		doc.GreetingMessages = defaults.GreetingMessages
	} else {
		if doc.GreetingMessages.Primary == "" {
			doc.GreetingMessages.Primary = defaults.GreetingMessages.Primary
		}
		if doc.GreetingMessages.EN == "" {
			doc.GreetingMessages.EN = defaults.GreetingMessages.EN
		}
	}

	if doc.HITLAutoReleaseHours == 0 {
		doc.HITLAutoReleaseHours = DefaultHITLAutoReleaseHours
	}

	// SystemPromptTemplate and EnglishAddonTemplate stay as stored: empty
	// string already means "use system default".

	return doc
}

// Validate checks the range and enum constraints a document must satisfy
// before it may be persisted. It expects a materialized document.
func (c *SalesConfigData) Validate() error {
	if c.CompanyName == "" {
		return fmt.Errorf("company_name is required")
	}
	if c.AgentName == "" {
		return fmt.Errorf("agent_name is required")
	}
	if c.PrimaryLanguage != LanguageRU && c.PrimaryLanguage != LanguageEN {
		return fmt.Errorf("primary_language must be %q or %q, got %q", LanguageRU, LanguageEN, c.PrimaryLanguage)
	}

	seen := make(map[string]bool, len(c.QualificationQuestions))
	for _, q := range c.QualificationQuestions {
		if q.ID == "" {
			return fmt.Errorf("qualification question without id")
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate qualification question id: %s", q.ID)
		}
		seen[q.ID] = true
	}

	if cta := c.CTASettings; cta != nil {
		if cta.MaxIterationsBeforeCTA < MinIterationsBeforeCTA || cta.MaxIterationsBeforeCTA > MaxIterationsBeforeCTA {
			return fmt.Errorf("max_iterations_before_cta must be in [%d, %d], got %d",
				MinIterationsBeforeCTA, MaxIterationsBeforeCTA, cta.MaxIterationsBeforeCTA)
		}
		if cta.FollowUpHours < MinFollowUpHours || cta.FollowUpHours > MaxFollowUpHours {
			return fmt.Errorf("follow_up_hours must be in [%d, %d], got %d",
				MinFollowUpHours, MaxFollowUpHours, cta.FollowUpHours)
		}
		for _, t := range cta.OfferCallTypes {
			switch t {
			case CallTypePhone, CallTypeGoogleMeet, CallTypeZoom, CallTypeWhatsApp:
			default:
				return fmt.Errorf("unknown offer call type: %s", t)
			}
		}
	}

	if bant := c.BANTQualification; bant != nil && len(bant.QuestionOrder) > 0 {
		if len(bant.QuestionOrder) != len(DefaultBANTOrder) {
			return fmt.Errorf("bant question_order must contain exactly the %d BANT keys", len(DefaultBANTOrder))
		}
		for _, key := range DefaultBANTOrder {
			if !slices.Contains(bant.QuestionOrder, key) {
				return fmt.Errorf("bant question_order is missing key %q", key)
			}
		}
	}

	return nil
}

// deepCopy clones a document so Materialize never aliases or mutates its
// input. Uses github.com/jinzhu/copier so newly added fields are picked up
// automatically.
func deepCopy(src *SalesConfigData) *SalesConfigData {
	var dst SalesConfigData
	if err := copier.CopyWithOption(&dst, src, copier.Option{DeepCopy: true}); err != nil {
		logger.Base().Warn("failed to deep copy sales config", zap.Error(err))
		clone := *src
		return &clone
	}
	return &dst
}
