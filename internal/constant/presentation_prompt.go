package constant

const (
	ChatMessageRoleUser = "user"

	// Outline prompt, Russian. Placeholders: language phrase, topic, slide count, template block.
	OutlinePromptRU = `Создай подробный план презентации %s на тему "%s".
Количество слайдов: %d.%s

Для каждого слайда укажи: заголовок и 3-5 ключевых пунктов.
Отвечай СТРОГО в формате JSON:
{"slides": [{"title": "...", "points": ["...", "..."]}]}`

	OutlineTemplateBlockRU = `
ВАЖНО: Используй структуру этого шаблона как основу:
%s`

	OutlinePromptEN = `Create a detailed presentation outline %s on the topic "%s".
Number of slides: %d.%s

For each slide give a title and 3-5 key points.
Answer STRICTLY in JSON format:
{"slides": [{"title": "...", "points": ["...", "..."]}]}`

	OutlineTemplateBlockEN = `
IMPORTANT: Use the structure of this template as the basis:
%s`

	LanguagePhraseRU = "на русском языке"
	LanguagePhraseEN = "in English"

	// Fallback outline
	FallbackSubtitle     = "AI Generated"
	FallbackAspectRU     = "Аспект %d"
	FallbackAspectEN     = "Aspect %d"
	FallbackProblemRU    = "Описание проблемы"
	FallbackSolutionRU   = "Решение"
	FallbackResultRU     = "Результат"
	FallbackProblemEN    = "Problem statement"
	FallbackSolutionEN   = "Solution"
	FallbackResultEN     = "Result"
	CoverSubtitleRU      = "AI-сгенерированная презентация"
	CoverSubtitleEN      = "AI-generated presentation"
	BulletPrefix         = "• "
	NewDeckFileNameLabel = "new"
	FileNameTopicRunes   = 30
)
