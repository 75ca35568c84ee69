package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"ai-deckbot-be/internal/config"
	"ai-deckbot-be/internal/entity"
	"ai-deckbot-be/internal/pkg/logger"
	"ai-deckbot-be/internal/service"
	"ai-deckbot-be/pkg/events"
	"ai-deckbot-be/pkg/llm/factory"
	pktNats "ai-deckbot-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const channelCLI = "cli"

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

type options struct {
	templatesDir string
	provider     string
	model        string
	baseURL      string
	apiKey       string
	language     string
	maxSlides    int
	repairJSON   bool
	maxTokens    int
	verbose      bool
}

type pipeline struct {
	templates    service.ITemplateService
	structure    service.IStructureService
	presentation service.IPresentationService
	language     entity.Language
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, events.DeckEvent) {}

func (o *options) logger() logger.ILogger {
	if o.verbose {
		return logger.NewZapLogger(filepath.Join(os.TempDir(), "deckctl.log"), false)
	}
	return logger.NewNopLogger()
}

func (o *options) pipeline(cfg *config.Config) (*pipeline, error) {
	log := o.logger()
	templates, err := service.NewTemplateService(o.templatesDir, log)
	if err != nil {
		return nil, err
	}
	provider, err := factory.NewLLMProvider(factory.ProviderConfig{
		Provider: o.provider,
		Model:    o.model,
		BaseURL:  o.baseURL,
		APIKey:   o.apiKey,
		Timeout:  cfg.Ai.RequestTimeout,
	})
	if err != nil {
		return nil, err
	}
	structure := service.NewStructureService(provider, service.StructureOptions{
		Timeout:    cfg.Ai.RequestTimeout,
		RepairJSON: o.repairJSON,
		MaxTokens:  o.maxTokens,
	}, log, nil)
	presentation := service.NewPresentationService(templates, structure, service.NewDeckService(log), noopPublisher{}, o.maxSlides, log)
	return &pipeline{
		templates:    templates,
		structure:    structure,
		presentation: presentation,
		language:     entity.ParseLanguage(o.language, entity.LanguageRU),
	}, nil
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()
	opts := &options{}

	root := &cobra.Command{
		Use:           "deckctl",
		Short:         "Generate slide decks from a topic",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	f := root.PersistentFlags()
	f.StringVar(&opts.templatesDir, "templates", cfg.Deck.TemplatesDir, "template directory")
	f.StringVar(&opts.provider, "provider", cfg.Ai.LLMProvider, "LLM provider: ollama, openai or mock")
	f.StringVar(&opts.model, "model", cfg.Ai.LLMModel, "model name")
	f.StringVar(&opts.baseURL, "base-url", cfg.Ai.OllamaBaseURL, "model endpoint")
	f.StringVar(&opts.apiKey, "api-key", cfg.Ai.OllamaAPIKey, "model API key")
	f.StringVar(&opts.language, "lang", cfg.Deck.Language, "deck language: ru or en")
	f.IntVar(&opts.maxSlides, "max-slides", cfg.Deck.MaxSlides, "largest accepted slide count")
	f.BoolVar(&opts.repairJSON, "repair-json", cfg.Ai.RepairJSON, "repair malformed model JSON before validation")
	f.IntVar(&opts.maxTokens, "max-tokens", cfg.Ai.MaxTokens, "cap on generated tokens (0 = provider default)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log to stdout")

	root.AddCommand(
		newTemplatesCmd(opts, cfg),
		newInspectCmd(opts),
		newOutlineCmd(opts, cfg),
		newGenerateCmd(opts, cfg),
		newEventsCmd(cfg),
	)
	return root
}

func newTemplatesCmd(opts *options, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List available templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := opts.pipeline(cfg)
			if err != nil {
				return err
			}
			list := p.templates.ListTemplates()
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), yellow("no templates in "+p.templates.Dir()))
				return nil
			}
			for _, t := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", bold(t.Name), gray(t.Path))
			}
			return nil
		},
	}
}

func newInspectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.pptx>",
		Short: "Print the slide structure and style of a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := service.NewTemplateService(filepath.Dir(args[0]), opts.logger())
			if err != nil {
				return err
			}
			inspection := templates.ExtractStructure(args[0])
			if inspection.Err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), yellow("degraded: "+inspection.Err.Error()))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cyan("style:"), inspection.Style)
			if inspection.Structure == nil {
				return nil
			}
			return writeJSON(cmd.OutOrStdout(), inspection.Structure)
		},
	}
}

type deckFlags struct {
	topic    string
	slides   int
	template string
}

func (d *deckFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&d.topic, "topic", "t", "", "presentation topic")
	cmd.Flags().IntVarP(&d.slides, "slides", "n", 5, "number of slides")
	cmd.Flags().StringVar(&d.template, "template", "", "template name")
	_ = cmd.MarkFlagRequired("topic")
}

func (d *deckFlags) request(lang entity.Language) entity.PresentationRequest {
	return entity.PresentationRequest{
		Topic:        d.topic,
		Language:     lang,
		SlideCount:   d.slides,
		TemplateName: d.template,
		Channel:      channelCLI,
	}
}

func newOutlineCmd(opts *options, cfg *config.Config) *cobra.Command {
	flags := &deckFlags{}
	cmd := &cobra.Command{
		Use:   "outline",
		Short: "Generate and print a deck outline without building the file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := opts.pipeline(cfg)
			if err != nil {
				return err
			}
			plan, err := p.presentation.Plan(cmd.Context(), flags.request(p.language))
			if err != nil {
				return err
			}
			result := p.structure.GenerateStructure(cmd.Context(), plan.Topic, plan.Language, plan.SlideCount, plan.Inspection.Structure)
			if result.Degraded() {
				fmt.Fprintln(cmd.ErrOrStderr(), yellow("fallback outline: "+service.FallbackReason(result.Err)))
			}
			return writeJSON(cmd.OutOrStdout(), result.Structure)
		},
	}
	flags.bind(cmd)
	return cmd
}

func newGenerateCmd(opts *options, cfg *config.Config) *cobra.Command {
	flags := &deckFlags{}
	var outDir string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build a .pptx deck",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := opts.pipeline(cfg)
			if err != nil {
				return err
			}
			deck, err := p.presentation.Generate(cmd.Context(), flags.request(p.language))
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			path := filepath.Join(outDir, deck.FileName)
			if err := os.WriteFile(path, deck.Data, 0o644); err != nil {
				return err
			}
			if deck.FallbackErr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), yellow("fallback outline: "+service.FallbackReason(deck.FallbackErr)))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d slides)\n", green("✓"), path, deck.SlideCount)
			return nil
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	return cmd
}

func newEventsCmd(cfg *config.Config) *cobra.Command {
	var url, durable string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail deck events from NATS",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if url == "" {
				return fmt.Errorf("NATS URL is required (--nats or NATS_URL)")
			}
			sub, err := pktNats.NewSubscriber(url, logger.NewNopLogger())
			if err != nil {
				return err
			}
			defer sub.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			err = sub.Subscribe(ctx, pktNats.Subject("deck.>"), durable, func(_ context.Context, e events.Event) error {
				fmt.Fprintf(out, "%s %s %s\n", gray(e.Timestamp().Format("15:04:05")), cyan(e.EventType()), formatPayload(e.Payload()))
				return nil
			})
			if err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "nats", cfg.App.NatsURL, "NATS server URL")
	cmd.Flags().StringVar(&durable, "durable", "deckctl", "durable consumer name")
	return cmd
}

func formatPayload(payload map[string]interface{}) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(data)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
