// AngelaMos | 2026
// service.go

package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/angelamos/artvia-backend/internal/core"
	"github.com/angelamos/artvia-backend/internal/product"
)

var (
	ErrMissingInput    = core.ValidationError("Product ID and question are required")
	ErrAssistantDown   = core.UnavailableError("AI service is unreachable. Please try again later.")
	ErrAssistantFailed = core.UpstreamError("AI service returned an error")
	ErrProductNotFound = core.NotFoundError("Product")
	ErrAssistantOff    = core.NewAppError(
		ErrNotConfigured,
		"GEMINI_API_KEY is not configured",
		http.StatusInternalServerError,
		"AI_NOT_CONFIGURED",
	)
)

const defaultCategoryName = "Unknown"

type Generator interface {
	Configured() bool
	Generate(ctx context.Context, system string, messages []Message) (string, error)
}

type ProductReader interface {
	Get(ctx context.Context, id string) (*product.Product, error)
}

type Service struct {
	ai       Generator
	products ProductReader
	logger   *slog.Logger
}

func NewService(ai Generator, products ProductReader, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		ai:       ai,
		products: products,
		logger:   logger,
	}
}

// Answer asks the model about a single product. The model only sees the
// product facts in the system instruction and the user's question.
func (s *Service) Answer(ctx context.Context, productID, question string) (string, error) {
	productID = strings.TrimSpace(productID)
	question = strings.TrimSpace(question)
	if productID == "" || question == "" {
		return "", ErrMissingInput
	}

	if !s.ai.Configured() {
		return "", ErrAssistantOff
	}

	p, err := s.products.Get(ctx, productID)
	if errors.Is(err, core.ErrNotFound) {
		return "", ErrProductNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load product: %w", err)
	}

	reply, err := s.ai.Generate(ctx, systemPrompt(p), []Message{
		{Role: "user", Text: question},
	})
	if err != nil {
		return "", s.mapError(ctx, productID, err)
	}

	return reply, nil
}

func (s *Service) mapError(ctx context.Context, productID string, err error) error {
	s.logger.WarnContext(ctx, "product helper failed",
		"product_id", productID,
		"error", err,
	)

	var apiErr *APIError
	switch {
	case errors.Is(err, ErrNotConfigured):
		return ErrAssistantOff
	case errors.Is(err, ErrUnreachable):
		return ErrAssistantDown
	case errors.As(err, &apiErr), errors.Is(err, ErrEmptyReply):
		return ErrAssistantFailed
	default:
		return err
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func systemPrompt(p *product.Product) string {
	categoryName := firstNonEmpty(
		p.Category.Name.String,
		p.CategoryName,
		defaultCategoryName,
	)

	var b strings.Builder
	b.WriteString("You are Munisa, the shopping assistant of an online marketplace for art and handmade goods.\n")
	b.WriteString("Answer the customer's question using only the product facts below.\n\n")
	b.WriteString("Product:\n")
	fmt.Fprintf(&b, "- Name: %s\n", firstNonEmpty(p.TitleUz, p.Title))
	fmt.Fprintf(&b, "- Category: %s\n", categoryName)
	fmt.Fprintf(&b, "- Description (UZ): %s\n", firstNonEmpty(p.DescriptionUz, p.Description))
	fmt.Fprintf(&b, "- Description (RU): %s\n", firstNonEmpty(p.DescriptionRu, p.Description))
	fmt.Fprintf(&b, "- Price: %s so'm\n\n", p.Price.String())
	b.WriteString("Rules:\n")
	b.WriteString("- Reply in Uzbek only, in a polite and professional tone.\n")
	b.WriteString("- Never invent details that are not listed above.\n")
	b.WriteString("- If the question is unrelated to this product, say so politely.\n")
	b.WriteString("- Keep answers short. No emoji, no markdown, no HTML.\n")

	return b.String()
}
