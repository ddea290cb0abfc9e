package constant

const (
	VariantBizChat = "bizchat"
	VariantAltron  = "altron"
	VariantLuxChat = "luxchat"
)

// DemoThread seeds a manager's inbox.
type DemoThread struct {
	ClientName  string
	LastMessage string
	Unread      int
	CaseStatus  string
}

// Variant carries the branding and seed data of one product flavour.
type Variant struct {
	Code              string
	Title             string
	Tagline           string
	DutyManager       string
	CaseStatusEnabled bool
	DemoThreads       []DemoThread
}

var variants = map[string]Variant{
	VariantBizChat: {
		Code:        VariantBizChat,
		Title:       "BizChat",
		Tagline:     "Корпоративный чат с клиентами",
		DutyManager: "Анна Смирнова",
		DemoThreads: []DemoThread{
			{ClientName: "Иван Петров", LastMessage: "Добрый день! Когда будет готов договор?", Unread: 2},
			{ClientName: "Мария Козлова", LastMessage: "Спасибо, файлы получила", Unread: 0},
			{ClientName: "Олег Васильев", LastMessage: "Можно перенести встречу на пятницу?", Unread: 1},
		},
	},
	VariantAltron: {
		Code:              VariantAltron,
		Title:             "Альтрон",
		Tagline:           "Юридические услуги",
		DutyManager:       "Елена Орлова",
		CaseStatusEnabled: true,
		DemoThreads: []DemoThread{
			{ClientName: "Иван Петров", LastMessage: "Прикладываю скан доверенности", Unread: 2, CaseStatus: CaseStatusWaitingDocs},
			{ClientName: "Мария Козлова", LastMessage: "Когда назначено заседание?", Unread: 1, CaseStatus: CaseStatusInProgress},
			{ClientName: "Олег Васильев", LastMessage: "Хочу проконсультироваться по договору", Unread: 0, CaseStatus: CaseStatusNew},
		},
	},
	VariantLuxChat: {
		Code:        VariantLuxChat,
		Title:       "LuxChat",
		Tagline:     "Премиальный сервис",
		DutyManager: "Виктория Белова",
		DemoThreads: []DemoThread{
			{ClientName: "Александр Громов", LastMessage: "Подтверждаю бронь на субботу", Unread: 1},
			{ClientName: "Екатерина Львова", LastMessage: "Благодарю за оперативность", Unread: 0},
			{ClientName: "Дмитрий Соколов", LastMessage: "Пришлите, пожалуйста, счёт", Unread: 3},
		},
	},
}

// LookupVariant falls back to BizChat for unknown codes.
func LookupVariant(code string) Variant {
	if v, ok := variants[code]; ok {
		return v
	}
	return variants[VariantBizChat]
}
