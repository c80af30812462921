package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"kudosnotify/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateKind selects which email body to render.
type TemplateKind string

const (
	TemplateKudos        TemplateKind = "kudos"
	TemplateRewardStatus TemplateKind = "reward_status"
	TemplateAdminClaim   TemplateKind = "admin_claim"
	TemplateGeneric      TemplateKind = "generic"
)

// TemplateData is the struct passed into templates for rendering. Each
// kind reads the fields it needs; unused fields are ignored.
type TemplateData struct {
	Title        string
	FirstName    string
	Message      string
	StatusText   string
	Notes        string
	ButtonText   string
	ButtonURL    string
	RewardName   string
	ClaimantName string
	PointsCost   int
}

// Renderer produces complete, self-contained HTML email documents from
// embedded templates with inlined styles. Rendering is pure and performs
// no I/O. html/template's contextual auto-escaping guarantees that
// user-controlled fields (kudos messages, admin notes, names) cannot
// inject markup into the output.
type Renderer struct {
	templates map[TemplateKind]*template.Template
}

// NewRenderer parses the embedded templates and returns a Renderer.
// Returns an error if any template fails to parse; this is a build
// defect, so callers fail fast at startup.
func NewRenderer() (*Renderer, error) {
	baseHTML, err := templateFS.ReadFile("templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("renderer: failed to read base.html: %w", err)
	}

	kinds := []TemplateKind{
		TemplateKudos,
		TemplateRewardStatus,
		TemplateAdminClaim,
		TemplateGeneric,
	}

	r := &Renderer{templates: make(map[TemplateKind]*template.Template, len(kinds))}
	for _, kind := range kinds {
		content, err := templateFS.ReadFile(fmt.Sprintf("templates/%s.html", kind))
		if err != nil {
			return nil, fmt.Errorf("renderer: failed to read %s.html: %w", kind, err)
		}
		tmpl, err := template.New("base").Parse(string(baseHTML))
		if err != nil {
			return nil, fmt.Errorf("renderer: failed to parse base.html: %w", err)
		}
		if _, err := tmpl.Parse(string(content)); err != nil {
			return nil, fmt.Errorf("renderer: failed to parse %s.html: %w", kind, err)
		}
		r.templates[kind] = tmpl
	}

	return r, nil
}

// Render produces the HTML document for the given kind. An unknown kind
// is a programming contract error, not user-facing input.
func (r *Renderer) Render(kind TemplateKind, data TemplateData) (string, error) {
	tmpl, ok := r.templates[kind]
	if !ok {
		return "", types.NewAppError(
			types.ErrCodeInternalUnexpected,
			fmt.Sprintf("no email template for kind %q", kind),
			nil,
		)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", types.NewAppError(
			types.ErrCodeInternalUnexpected,
			fmt.Sprintf("failed to render %q email template", kind),
			err,
		)
	}
	return buf.String(), nil
}
