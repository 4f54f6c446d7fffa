package mailer

import "context"

// TemplatedParams describes a message whose body and HTML may come from templates.
type TemplatedParams struct {
	MessageParams

	TemplateBody string         // Template for the plain text body; overrides Body when set
	TemplateHTML string         // Template for the HTML body; overrides HTML when set
	Data         map[string]any // Template data; nil means an empty map
}

// NewTemplatedMessage renders the configured templates and builds a Message.
//
// A non-empty TemplateBody replaces Body with the rendered output, and a
// non-empty TemplateHTML replaces HTML. The literal value is discarded, never
// used as a fallback. With no templates set the result is the same as
// NewMessage(p.MessageParams).
//
// Rendering goes through the Renderer bound to ctx (see WithRenderer); it fails
// with ErrNoAppContext when a template is requested and none is bound.
// Render errors are returned as is and no Message is produced.
func NewTemplatedMessage(ctx context.Context, p TemplatedParams) (*Message, error) {
	params := p.MessageParams
	if p.TemplateBody == "" && p.TemplateHTML == "" {
		return NewMessage(params), nil
	}

	r, err := RendererFromContext(ctx)
	if err != nil {
		return nil, err
	}

	data := p.Data
	if data == nil {
		data = map[string]any{}
	}

	if p.TemplateBody != "" {
		body, err := r.Render(ctx, p.TemplateBody, data)
		if err != nil {
			return nil, err
		}
		params.Body = body
	}

	if p.TemplateHTML != "" {
		html, err := r.Render(ctx, p.TemplateHTML, data)
		if err != nil {
			return nil, err
		}
		params.HTML = html
	}

	return NewMessage(params), nil
}
