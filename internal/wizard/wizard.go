// Package wizard drives the conversational flow that collects a template,
// a topic and a slide count, then delivers the generated deck.
package wizard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ai-deckbot-be/internal/constant"
	"ai-deckbot-be/internal/entity"
	"ai-deckbot-be/internal/pkg/logger"
	"ai-deckbot-be/pkg/metrics"
	"ai-deckbot-be/pkg/store"
)

// Generator is the part of the presentation pipeline the wizard drives.
type Generator interface {
	Plan(ctx context.Context, req entity.PresentationRequest) (*entity.PresentationPlan, error)
	Execute(ctx context.Context, plan *entity.PresentationPlan) (*entity.Presentation, error)
	MaxSlides() int
}

type TemplateLister interface {
	ListTemplates() []entity.TemplateDescriptor
}

type Wizard struct {
	sessions  store.SessionStore
	generator Generator
	templates TemplateLister
	language  entity.Language
	messages  constant.WizardMessages
	metrics   *metrics.Metrics
	logger    logger.ILogger
}

func New(sessions store.SessionStore, generator Generator, templates TemplateLister, lang entity.Language, m *metrics.Metrics, log logger.ILogger) *Wizard {
	return &Wizard{
		sessions:  sessions,
		generator: generator,
		templates: templates,
		language:  lang,
		messages:  constant.MessagesFor(string(lang)),
		metrics:   m,
		logger:    log,
	}
}

// Handle processes one event. Errors returned are transport failures; user
// mistakes are answered in the chat.
func (w *Wizard) Handle(ctx context.Context, m Messenger, ev Event) error {
	switch ev.Kind {
	case EventCommand:
		return w.handleCommand(ctx, m, ev)
	case EventCallback:
		if ev.CallbackID != "" {
			if err := m.AnswerCallback(ctx, ev.CallbackID); err != nil {
				w.logger.Warn("WIZARD", "Failed to answer callback", map[string]interface{}{"error": err.Error()})
			}
		}
		return w.handleCallback(ctx, m, ev)
	case EventText:
		return w.handleText(ctx, m, ev)
	}
	return nil
}

func (w *Wizard) send(ctx context.Context, m Messenger, chatID int64, text string, kb Keyboard) error {
	_, err := m.SendText(ctx, chatID, text, kb)
	return err
}

func (w *Wizard) handleCommand(ctx context.Context, m Messenger, ev Event) error {
	switch strings.ToLower(ev.Command) {
	case constant.WizardCommandStart, constant.WizardCommandHelp:
		return w.send(ctx, m, ev.ChatID, w.messages.Welcome, nil)
	case constant.WizardCommandCreate:
		return w.startCreation(ctx, m, ev)
	case constant.WizardCommandCancel:
		if _, ok := w.sessions.Get(ev.UserID); !ok {
			return w.send(ctx, m, ev.ChatID, w.messages.NothingToCancel, nil)
		}
		w.sessions.Remove(ev.UserID)
		return w.send(ctx, m, ev.ChatID, w.messages.Cancelled, nil)
	default:
		return w.send(ctx, m, ev.ChatID, w.messages.UnexpectedInput, nil)
	}
}

func (w *Wizard) startCreation(ctx context.Context, m Messenger, ev Event) error {
	if sess, ok := w.sessions.Get(ev.UserID); ok && sess.State == store.StateGenerating {
		return w.send(ctx, m, ev.ChatID, w.messages.UnexpectedInput, nil)
	}
	w.sessions.Save(&store.Session{UserID: ev.UserID, ChatID: ev.ChatID, State: store.StateIdle})
	return w.send(ctx, m, ev.ChatID, w.messages.ChooseTemplate, w.templateKeyboard())
}

func (w *Wizard) templateKeyboard() Keyboard {
	var kb Keyboard
	for i, t := range w.templates.ListTemplates() {
		data := constant.WizardCallbackTemplate + t.Name
		if len(data) > constant.WizardCallbackMaxBytes {
			data = constant.WizardCallbackTemplateIndex + strconv.Itoa(i)
		}
		kb = append(kb, []Button{{Text: fmt.Sprintf("%d. %s", i+1, t.Name), Data: data}})
	}
	return append(kb, []Button{{Text: w.messages.NoTemplate, Data: constant.WizardCallbackNoTemplate}})
}

func countKeyboard() Keyboard {
	row := make([]Button, 0, len(constant.WizardCountChoices))
	for _, n := range constant.WizardCountChoices {
		row = append(row, Button{Text: strconv.Itoa(n), Data: constant.WizardCallbackCount + strconv.Itoa(n)})
	}
	return Keyboard{row}
}

func (w *Wizard) handleCallback(ctx context.Context, m Messenger, ev Event) error {
	switch {
	case ev.Data == constant.WizardCallbackNoTemplate,
		strings.HasPrefix(ev.Data, constant.WizardCallbackTemplate),
		strings.HasPrefix(ev.Data, constant.WizardCallbackTemplateIndex):
		return w.chooseTemplate(ctx, m, ev)
	case strings.HasPrefix(ev.Data, constant.WizardCallbackCount):
		sess, ok := w.sessions.Get(ev.UserID)
		if !ok || sess.State != store.StateAwaitingCount {
			return w.send(ctx, m, ev.ChatID, w.messages.SessionExpired, nil)
		}
		n, err := strconv.Atoi(strings.TrimPrefix(ev.Data, constant.WizardCallbackCount))
		if err != nil || n < 1 || n > w.generator.MaxSlides() {
			return w.send(ctx, m, ev.ChatID, fmt.Sprintf(w.messages.CountOutOfRange, w.generator.MaxSlides()), nil)
		}
		sess.SlideCount = n
		return w.generate(ctx, m, sess, ev.MessageID)
	default:
		return w.send(ctx, m, ev.ChatID, w.messages.UnexpectedInput, nil)
	}
}

func (w *Wizard) chooseTemplate(ctx context.Context, m Messenger, ev Event) error {
	if sess, ok := w.sessions.Get(ev.UserID); ok && sess.State == store.StateGenerating {
		return w.send(ctx, m, ev.ChatID, w.messages.UnexpectedInput, nil)
	}

	name, ok := w.templateFromCallback(ev.Data)
	if !ok {
		return w.send(ctx, m, ev.ChatID, w.messages.TemplateNotFound, nil)
	}

	w.sessions.Save(&store.Session{
		UserID:   ev.UserID,
		ChatID:   ev.ChatID,
		State:    store.StateAwaitingTopic,
		Template: name,
	})

	text := w.messages.AskTopic
	if name != "" {
		text = fmt.Sprintf(w.messages.AskTopicWith, name)
	}
	if ev.MessageID != 0 {
		return m.EditText(ctx, ev.ChatID, ev.MessageID, text, nil)
	}
	return w.send(ctx, m, ev.ChatID, text, nil)
}

// templateFromCallback returns "" for the no-template choice.
func (w *Wizard) templateFromCallback(data string) (string, bool) {
	if data == constant.WizardCallbackNoTemplate {
		return "", true
	}
	list := w.templates.ListTemplates()
	if rest, ok := strings.CutPrefix(data, constant.WizardCallbackTemplateIndex); ok {
		i, err := strconv.Atoi(rest)
		if err != nil || i < 0 || i >= len(list) {
			return "", false
		}
		return list[i].Name, true
	}
	name := strings.TrimPrefix(data, constant.WizardCallbackTemplate)
	for _, t := range list {
		if t.Name == name {
			return name, true
		}
	}
	return "", false
}

func (w *Wizard) handleText(ctx context.Context, m Messenger, ev Event) error {
	sess, ok := w.sessions.Get(ev.UserID)
	if !ok {
		return w.send(ctx, m, ev.ChatID, w.messages.UnexpectedInput, nil)
	}

	switch sess.State {
	case store.StateAwaitingTopic:
		topic := strings.TrimSpace(ev.Text)
		if topic == "" {
			return w.send(ctx, m, ev.ChatID, w.messages.EmptyTopic, nil)
		}
		sess.Topic = topic
		sess.State = store.StateAwaitingCount
		w.sessions.Save(sess)
		return w.send(ctx, m, ev.ChatID, w.messages.AskCount, countKeyboard())
	case store.StateAwaitingCount:
		n, err := strconv.Atoi(strings.TrimSpace(ev.Text))
		if err != nil || n < 1 || n > w.generator.MaxSlides() {
			return w.send(ctx, m, ev.ChatID, fmt.Sprintf(w.messages.CountOutOfRange, w.generator.MaxSlides()), nil)
		}
		sess.SlideCount = n
		return w.generate(ctx, m, sess, 0)
	case store.StateGenerating:
		return nil
	default:
		return w.send(ctx, m, ev.ChatID, w.messages.UnexpectedInput, nil)
	}
}

// generate runs the pipeline and delivers the deck. The session is removed on
// every exit path.
func (w *Wizard) generate(ctx context.Context, m Messenger, sess *store.Session, statusMessageID int) (err error) {
	sess.State = store.StateGenerating
	w.sessions.Save(sess)
	w.metrics.WizardStarted()

	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("WIZARD", "Generation panicked", map[string]interface{}{"user_id": sess.UserID, "error": fmt.Sprint(r)})
			err = w.send(ctx, m, sess.ChatID, fmt.Sprintf(w.messages.AssemblyFailed, r), nil)
		}
		w.sessions.Remove(sess.UserID)
		w.metrics.WizardFinished()
	}()

	plan, err := w.generator.Plan(ctx, entity.PresentationRequest{
		Topic:        sess.Topic,
		Language:     w.language,
		SlideCount:   sess.SlideCount,
		TemplateName: sess.Template,
		Channel:      m.Channel(),
	})
	if err != nil {
		return w.send(ctx, m, sess.ChatID, fmt.Sprintf(w.messages.AssemblyFailed, err.Error()), nil)
	}

	templateLabel := plan.TemplateName()
	if templateLabel == "" {
		templateLabel = w.messages.UnknownTemplate
	}
	status := fmt.Sprintf(w.messages.Generating, plan.Topic, plan.SlideCount, templateLabel)
	if statusMessageID != 0 {
		err = m.EditText(ctx, sess.ChatID, statusMessageID, status, nil)
	} else {
		_, err = m.SendText(ctx, sess.ChatID, status, nil)
	}
	if err != nil {
		w.logger.Warn("WIZARD", "Failed to post status", map[string]interface{}{"error": err.Error()})
	}

	pres, err := w.generator.Execute(ctx, plan)
	if err != nil {
		return w.send(ctx, m, sess.ChatID, fmt.Sprintf(w.messages.AssemblyFailed, err.Error()), nil)
	}

	caption := w.messages.Caption
	if pres.Source == entity.SourceFallback {
		caption = w.messages.CaptionFallback
	}
	return m.SendDocument(ctx, sess.ChatID, pres.FileName, pres.Data, fmt.Sprintf(caption, plan.Topic, pres.SlideCount))
}
