package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-blocksite/internal/stylesheet"
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// PageResult combines the block results of one page.
type PageResult struct {
	HTML     string
	CSS      string
	JS       string
	Assets   []interfaces.Asset
	Errors   []interfaces.BlockError
	Warnings []string
	Blocks   []*interfaces.RenderResult
}

// Degraded reports whether any block on the page fell back.
func (p *PageResult) Degraded() bool {
	return p != nil && len(p.Errors) > 0
}

// RenderPage renders blocks and joins their output in block order. CSS is
// deduplicated across blocks and every block script runs in its own scope.
func (e *Engine) RenderPage(ctx context.Context, blocks []interfaces.Block, rc interfaces.RenderContext) *PageResult {
	results := e.RenderBlocks(ctx, blocks, rc)
	page := &PageResult{Blocks: results}

	var html strings.Builder
	sheet := stylesheet.New()
	for _, result := range results {
		html.WriteString(result.HTML)
		html.WriteByte('\n')
		sheet.Add(fmt.Sprintf("block %s (%s)", result.BlockID, result.BlockType), result.CSS)
		page.Assets = append(page.Assets, result.Assets...)
		page.Errors = append(page.Errors, result.Errors...)
		page.Warnings = append(page.Warnings, result.Warnings...)
	}
	page.Warnings = append(page.Warnings, sheet.Warnings()...)
	page.HTML = html.String()
	page.CSS = sheet.String()
	page.JS = CombineScripts(results)
	return page
}

// WrapScript isolates a block script in its own function scope.
func WrapScript(blockID, blockType, js string) string {
	return fmt.Sprintf("// block %s (%s)\n(function() {\n%s\n})();", blockID, blockType, strings.TrimSpace(js))
}

// CombineScripts wraps every non-empty block script in block order.
func CombineScripts(results []*interfaces.RenderResult) string {
	parts := make([]string, 0, len(results))
	for _, result := range results {
		if result == nil || strings.TrimSpace(result.JS) == "" {
			continue
		}
		parts = append(parts, WrapScript(result.BlockID, result.BlockType, result.JS))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n") + "\n"
}
