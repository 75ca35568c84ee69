package constant

const (
	WizardCommandStart  = "start"
	WizardCommandHelp   = "help"
	WizardCommandCreate = "create"
	WizardCommandCancel = "cancel"

	WizardCallbackTemplate      = "tpl:"
	WizardCallbackTemplateIndex = "tpl#"
	WizardCallbackNoTemplate    = "tpl_none"
	WizardCallbackCount         = "count:"

	// Telegram limits callback data to 64 bytes.
	WizardCallbackMaxBytes = 64
)

// WizardCountChoices are offered as buttons; any integer in range may also be typed.
var WizardCountChoices = []int{3, 5, 7}

type WizardMessages struct {
	Welcome          string
	ChooseTemplate   string
	NoTemplate       string
	AskTopic         string
	AskTopicWith     string
	AskCount         string
	CountOutOfRange  string
	Generating       string
	Caption          string
	CaptionFallback  string
	AssemblyFailed   string
	Cancelled        string
	NothingToCancel  string
	UnexpectedInput  string
	SessionExpired   string
	EmptyTopic       string
	UnknownTemplate  string
	TemplateNotFound string
}

var WizardMessagesRU = WizardMessages{
	Welcome: "👋 Привет! Я создаю презентации с помощью ИИ.\n\n" +
		"/create — создать презентацию\n/cancel — отменить\n/help — помощь",
	ChooseTemplate:   "🎨 Выберите шаблон:",
	NoTemplate:       "📄 Без шаблона",
	AskTopic:         "📝 Введите тему презентации:",
	AskTopicWith:     "✅ Шаблон: %s\n\n📝 Введите тему презентации:",
	AskCount:         "🔢 Сколько слайдов?",
	CountOutOfRange:  "Введите число от 1 до %d.",
	Generating:       "⏳ Создаю презентацию...\n\nТема: %s\nСлайдов: %d\nШаблон: %s",
	Caption:          "✅ Презентация готова!\n\n📊 Тема: %s\n📑 Слайдов: %d",
	CaptionFallback:  "⚠️ ИИ недоступен, использована базовая структура.\n\n📊 Тема: %s\n📑 Слайдов: %d",
	AssemblyFailed:   "❌ Ошибка: %s",
	Cancelled:        "❌ Отменено",
	NothingToCancel:  "Нечего отменять. /create — создать презентацию",
	UnexpectedInput:  "Используйте /create, чтобы создать презентацию.",
	SessionExpired:   "Сессия устарела. Начните заново: /create",
	EmptyTopic:       "Тема не может быть пустой. Введите тему презентации:",
	UnknownTemplate:  "без шаблона",
	TemplateNotFound: "Шаблон не найден, выберите другой.",
}

var WizardMessagesEN = WizardMessages{
	Welcome: "👋 Hi! I build presentations with AI.\n\n" +
		"/create — new presentation\n/cancel — cancel\n/help — help",
	ChooseTemplate:   "🎨 Choose a template:",
	NoTemplate:       "📄 No template",
	AskTopic:         "📝 Enter the presentation topic:",
	AskTopicWith:     "✅ Template: %s\n\n📝 Enter the presentation topic:",
	AskCount:         "🔢 How many slides?",
	CountOutOfRange:  "Enter a number from 1 to %d.",
	Generating:       "⏳ Building the presentation...\n\nTopic: %s\nSlides: %d\nTemplate: %s",
	Caption:          "✅ Presentation ready!\n\n📊 Topic: %s\n📑 Slides: %d",
	CaptionFallback:  "⚠️ AI unavailable, a basic outline was used.\n\n📊 Topic: %s\n📑 Slides: %d",
	AssemblyFailed:   "❌ Error: %s",
	Cancelled:        "❌ Cancelled",
	NothingToCancel:  "Nothing to cancel. /create starts a new presentation",
	UnexpectedInput:  "Use /create to build a presentation.",
	SessionExpired:   "Session expired. Start again: /create",
	EmptyTopic:       "The topic cannot be empty. Enter the presentation topic:",
	UnknownTemplate:  "none",
	TemplateNotFound: "Template not found, pick another one.",
}

// MessagesFor returns the wizard texts for a language code.
func MessagesFor(lang string) WizardMessages {
	if lang == "en" {
		return WizardMessagesEN
	}
	return WizardMessagesRU
}
