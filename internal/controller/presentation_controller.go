package controller

import (
	"errors"
	"net/url"
	"strconv"

	"ai-deckbot-be/internal/dto"
	"ai-deckbot-be/internal/entity"
	"ai-deckbot-be/internal/pkg/serverutils"
	"ai-deckbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	pptxContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	ChannelHTTP     = "http"
)

type IPresentationController interface {
	RegisterRoutes(r fiber.Router)
	ListTemplates(ctx *fiber.Ctx) error
	TemplateStructure(ctx *fiber.Ctx) error
	Structure(ctx *fiber.Ctx) error
	Generate(ctx *fiber.Ctx) error
}

type presentationController struct {
	templates    service.ITemplateService
	structure    service.IStructureService
	presentation service.IPresentationService
	language     entity.Language
}

func NewPresentationController(
	templates service.ITemplateService,
	structure service.IStructureService,
	presentation service.IPresentationService,
	language entity.Language,
) IPresentationController {
	return &presentationController{
		templates:    templates,
		structure:    structure,
		presentation: presentation,
		language:     language,
	}
}

func (c *presentationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/presentation/v1")
	h.Get("/templates", c.ListTemplates)
	h.Get("/templates/:name/structure", c.TemplateStructure)
	h.Post("/structure", c.Structure)
	h.Post("/generate", c.Generate)
}

func (c *presentationController) ListTemplates(ctx *fiber.Ctx) error {
	list := c.templates.ListTemplates()
	res := make([]dto.TemplateResponse, 0, len(list))
	for _, t := range list {
		res = append(res, dto.TemplateResponse{Name: t.Name, Path: t.Path})
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list templates", res))
}

func (c *presentationController) TemplateStructure(ctx *fiber.Ctx) error {
	name, err := url.PathUnescape(ctx.Params("name"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid template name")
	}
	tmpl, ok := c.templates.Resolve(name)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Template not found")
	}

	inspection := c.templates.ExtractStructure(tmpl.Path)
	res := dto.TemplateStructureResponse{
		Name:      tmpl.Name,
		Style:     inspection.Style,
		Slides:    inspection.SlideCount(),
		Structure: inspection.Structure,
		Degraded:  inspection.Degraded(),
	}
	if inspection.Err != nil {
		res.Error = inspection.Err.Error()
	}
	return ctx.JSON(serverutils.SuccessResponse("Success extract template structure", res))
}

func (c *presentationController) parseRequest(ctx *fiber.Ctx) (entity.PresentationRequest, error) {
	var req dto.GeneratePresentationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return entity.PresentationRequest{}, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return entity.PresentationRequest{}, err
	}
	return entity.PresentationRequest{
		Topic:        req.Topic,
		Language:     entity.ParseLanguage(req.Language, c.language),
		SlideCount:   req.SlideCount,
		TemplateName: req.Template,
		Channel:      ChannelHTTP,
	}, nil
}

func badRequest(err error) error {
	if errors.Is(err, service.ErrEmptyTopic) || errors.Is(err, service.ErrSlideCountOutRange) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

// Structure returns the outline without assembling a deck.
func (c *presentationController) Structure(ctx *fiber.Ctx) error {
	req, err := c.parseRequest(ctx)
	if err != nil {
		return err
	}
	plan, err := c.presentation.Plan(ctx.UserContext(), req)
	if err != nil {
		return badRequest(err)
	}

	result := c.structure.GenerateStructure(ctx.UserContext(), plan.Topic, plan.Language, plan.SlideCount, plan.Inspection.Structure)
	return ctx.JSON(serverutils.SuccessResponse("Success generate structure", dto.StructureResponse{
		Topic:          plan.Topic,
		Template:       plan.TemplateName(),
		Source:         result.Source,
		FallbackReason: service.FallbackReason(result.Err),
		Structure:      result.Structure,
	}))
}

// Generate streams the assembled .pptx with metadata in X-Deck-* headers, or
// returns a JSON envelope carrying the file when format=json.
func (c *presentationController) Generate(ctx *fiber.Ctx) error {
	req, err := c.parseRequest(ctx)
	if err != nil {
		return err
	}
	p, err := c.presentation.Generate(ctx.UserContext(), req)
	if err != nil {
		return badRequest(err)
	}

	if ctx.Query("format") == "json" {
		return ctx.JSON(serverutils.SuccessResponse("Success generate presentation", dto.GeneratePresentationResponse{
			Id:             p.Id,
			FileName:       p.FileName,
			SlideCount:     p.SlideCount,
			Source:         p.Source,
			FallbackReason: service.FallbackReason(p.FallbackErr),
			Template:       p.Template,
			SizeBytes:      len(p.Data),
			Data:           p.Data,
		}))
	}

	ctx.Set(fiber.HeaderContentType, pptxContentType)
	ctx.Set(fiber.HeaderContentDisposition, "attachment; filename*=UTF-8''"+url.PathEscape(p.FileName))
	ctx.Set("X-Deck-Id", p.Id.String())
	ctx.Set("X-Deck-Slides", strconv.Itoa(p.SlideCount))
	ctx.Set("X-Deck-Source", string(p.Source))
	if reason := service.FallbackReason(p.FallbackErr); reason != "" {
		ctx.Set("X-Deck-Fallback-Reason", reason)
	}
	return ctx.Send(p.Data)
}
