package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"leadpilot/internal/models"
)

const (
	generationMaxTokens   = 200
	generationTemperature = 0.7
)

// TemplateService composes outgoing message content. A non-empty template
// always wins; otherwise content is AI-generated with a static fallback.
type TemplateService struct {
	generator TextGenerator
}

// NewTemplateService creates a new template service. The generator may be
// nil, in which case composition always uses the fallback text.
func NewTemplateService(generator TextGenerator) *TemplateService {
	return &TemplateService{generator: generator}
}

// Render substitutes lead placeholders into the template. Only {lead_name}
// and {lead_email} are recognized; anything else passes through verbatim.
func (s *TemplateService) Render(template string, lead *models.Lead) string {
	if lead == nil {
		return template
	}
	r := strings.NewReplacer(
		"{lead_name}", lead.Name,
		"{lead_email}", lead.Email,
	)
	return r.Replace(template)
}

// Compose produces the content for one outgoing message and reports whether
// it was AI-generated. Template text is never reported as generated, and
// neither is the fallback.
func (s *TemplateService) Compose(ctx context.Context, automation *models.Automation, lead *models.Lead, kind string) (string, bool) {
	if automation.MessageTemplate != "" {
		return s.Render(automation.MessageTemplate, lead), false
	}

	if s.generator != nil && lead != nil {
		prompt := fmt.Sprintf(
			"Write a professional, warm %s message for %s (%s). Keep it brief and personal.",
			kind, lead.Name, lead.Email,
		)
		content, err := s.generator.Generate(ctx, prompt, generationMaxTokens, generationTemperature)
		if err == nil && content != "" {
			return content, true
		}
		if err != nil {
			log.Printf("Text generation failed, using fallback: %v", err)
		}
	}

	name := ""
	if lead != nil {
		name = lead.Name
	}
	return fmt.Sprintf("Hi %s, this is a %s message.", name, kind), false
}
