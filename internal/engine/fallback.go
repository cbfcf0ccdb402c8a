package engine

import (
	"bytes"
	"html/template"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// FallbackStyles is attached to every fallback result.
const FallbackStyles = `.block-error{padding:1.5rem;margin:1rem 0;border:2px dashed #dc2626;border-radius:.5rem;background:#fef2f2;color:#991b1b;font-family:system-ui,sans-serif}
.block-error__title{margin:0 0 .5rem;font-weight:600}
.block-error__message{margin:0;font-size:.875rem}`

var fallbackTemplate = template.Must(template.New("fallback").Parse(
	`<div class="block-error" data-block-id="{{.ID}}" data-block-type="{{.Type}}" role="alert">` +
		`<p class="block-error__title">Block unavailable: {{.Type}}</p>` +
		`<p class="block-error__message">{{.Message}}</p>` +
		`</div>`))

func fallbackResult(block interfaces.Block, kind interfaces.ErrorKind, status interfaces.RenderStatus, message string, warnings []string) *interfaces.RenderResult {
	var buf bytes.Buffer
	if err := fallbackTemplate.Execute(&buf, map[string]string{
		"ID":      block.ID,
		"Type":    block.Type,
		"Message": message,
	}); err != nil {
		buf.Reset()
		buf.WriteString(`<div class="block-error"></div>`)
	}
	return &interfaces.RenderResult{
		BlockID:   block.ID,
		BlockType: block.Type,
		HTML:      buf.String(),
		CSS:       FallbackStyles,
		Errors: []interfaces.BlockError{{
			BlockID:      block.ID,
			BlockType:    block.Type,
			Message:      message,
			FallbackUsed: true,
			Kind:         kind,
		}},
		Warnings: warnings,
		Timing:   interfaces.RenderTiming{CSSBytes: len(FallbackStyles)},
		Status:   status,
	}
}
