package config

// Defaults below are the versioned built-in document substituted field by field
// during Materialize. Primary-language text is Russian; the product ships
// bilingual ru/en.
const (
	DefaultHITLAutoReleaseHours   = 24
	DefaultMaxIterationsBeforeCTA = 5
	DefaultFollowUpHours          = 24
)

// DefaultSalesConfig returns the built-in default sales agent configuration.
// Every call returns a fresh document so callers may mutate the result.
func DefaultSalesConfig() *SalesConfigData {
	return &SalesConfigData{
		CompanyName:        "",
		AgentName:          "Анна",
		CompanyDescription: "",
		EscalationEmail:    "",
		EscalationPhone:    "",

		PrimaryLanguage:    LanguageRU,
		SupportedLanguages: []string{LanguageRU, LanguageEN},

		QualificationQuestions: []QualificationQuestion{
			{
				ID:              "q-company-size",
				QuestionPrimary: "Расскажите, пожалуйста, о вашей компании: чем занимаетесь и сколько человек в команде?",
				QuestionEN:      "Could you tell me about your company: what do you do and how big is your team?",
			},
			{
				ID:              "q-pain-point",
				QuestionPrimary: "Какую задачу вы хотите решить в первую очередь?",
				QuestionEN:      "What problem are you looking to solve first?",
			},
			{
				ID:              "q-current-tools",
				QuestionPrimary: "Какими инструментами вы пользуетесь сейчас?",
				QuestionEN:      "What tools are you using today?",
			},
		},

		ScoringCriteria: &ScoringCriteria{
			Hot: &ScoringCriterion{
				CriteriaPrimary: "Есть бюджет, решение нужно в ближайший месяц, общаемся с ЛПР.",
				CriteriaEN:      "Budget confirmed, decision needed within a month, talking to the decision maker.",
			},
			Warm: &ScoringCriterion{
				CriteriaPrimary: "Есть интерес и понимание задачи, но сроки или бюджет пока не определены.",
				CriteriaEN:      "Clear interest and understood need, but timeline or budget is not settled yet.",
			},
			Cold: &ScoringCriterion{
				CriteriaPrimary: "Интерес общий, без конкретной задачи, сроков и бюджета.",
				CriteriaEN:      "General interest only, no concrete need, timeline or budget.",
			},
		},

		CTASettings: &CTASettings{
			MessagePrimary:         "Предлагаю созвониться на 20 минут — покажу, как это работает на вашем кейсе. Когда вам удобно?",
			MessageEN:              "Let's hop on a 20-minute call — I'll show you how this works for your case. When works for you?",
			MaxIterationsBeforeCTA: DefaultMaxIterationsBeforeCTA,
			FollowUpHours:          DefaultFollowUpHours,
			OfferCallTypes:         []string{CallTypePhone, CallTypeGoogleMeet, CallTypeZoom},
			PurchaseURL:            "",
			PurchaseCTAPrimary:     "Готовы начать? Оформить подписку можно по ссылке ниже.",
			PurchaseCTAEN:          "Ready to start? You can subscribe using the link below.",
		},

		BANTQualification: &BANTQualification{
			Need: &BANTField{
				QuestionPrimary: "Какую основную задачу вы хотите решить?",
				QuestionEN:      "What is the main problem you want to solve?",
				Required:        true,
			},
			Timeline: &BANTField{
				QuestionPrimary: "Когда вы планируете внедрить решение?",
				QuestionEN:      "When are you planning to implement a solution?",
				Required:        true,
			},
			Budget: &BANTField{
				QuestionPrimary: "Какой бюджет вы рассматриваете для этой задачи?",
				QuestionEN:      "What budget range are you considering for this?",
				Required:        false,
			},
			Authority: &BANTField{
				QuestionPrimary: "Кто у вас принимает решение по таким вопросам?",
				QuestionEN:      "Who makes the decision on this in your company?",
				Required:        false,
			},
			QuestionOrder: append([]string(nil), DefaultBANTOrder...),
		},

		EscalationTriggers: &EscalationTriggers{
			ManualIntervention:  true,
			ExplicitRequest:     true,
			AgentError:          true,
			IrrelevantQuestions: true,
			ViolenceThreats:     true,
			CompetitorMentions:  true,
			VIPDetection:        true,
			VIPKeywords: []string{
				"CEO", "founder", "директор", "основатель", "инвестор", "партнёрство",
			},
			VIPVolumeThreshold: "более 1000 диалогов в месяц",
		},

		AgentBehavior: &AgentBehavior{
			DiscloseBotIdentity:         true,
			BotDisclosureMessagePrimary: "Я виртуальный ассистент. Могу ответить на вопросы или позвать коллегу.",
			BotDisclosureMessageEN:      "I'm a virtual assistant. I can answer your questions or bring in a colleague.",
		},

		SalesReps: []map[string]interface{}{},

		HubspotIntegration: &HubspotIntegration{
			Enabled:           false,
			SyncAsUnqualified: false,
		},

		GreetingMessages: &GreetingMessages{
			Primary: "Здравствуйте! Я помогу подобрать решение под вашу задачу. С чего начнём?",
			EN:      "Hi! I can help you find the right solution for your needs. Where shall we start?",
		},

		HITLAutoReleaseHours: DefaultHITLAutoReleaseHours,

		SystemPromptTemplate: "",
		EnglishAddonTemplate: "",
	}
}
