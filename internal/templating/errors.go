package templating

import "errors"

// Sentinel errors for template loading and rendering.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplateSyntax   = errors.New("template syntax error")
	ErrUndefined        = errors.New("undefined field")
	ErrFilter           = errors.New("helper failed")
	ErrRender           = errors.New("rendering failed")
)
