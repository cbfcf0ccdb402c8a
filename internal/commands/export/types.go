package exportcmd

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-blocksite/internal/export"
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

const exportSiteMessageType = "blocksite.export.site"

// ResultCallback receives the export result. It runs synchronously and is
// invoked for failed exports too, with whatever the pipeline produced.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope carries an export result together with packaging details.
type ResultEnvelope struct {
	Result   *export.Result
	Metadata map[string]any
}

// ExportSiteCommand renders a site and hands the files to the configured
// packagers.
type ExportSiteCommand struct {
	Site           interfaces.Site `json:"site"`
	Options        export.Options  `json:"options"`
	OutputDir      string          `json:"output_dir,omitempty"`
	Archive        string          `json:"archive,omitempty"`
	DryRun         bool            `json:"dry_run,omitempty"`
	ResultCallback ResultCallback  `json:"-"`
}

// Type implements command.Message.
func (ExportSiteCommand) Type() string { return exportSiteMessageType }

// Validate checks the message before any rendering happens.
func (m ExportSiteCommand) Validate() error {
	errs := validation.Errors{}
	if err := validation.Validate(m.Site.Pages, validation.Required); err != nil {
		errs["site.pages"] = err
	} else if err := uniqueOutputs(m.Site.Pages); err != nil {
		errs["site.pages"] = err
	}
	if err := m.Options.Normalized(m.Site.Domain).Validate(); err != nil {
		errs["options"] = err
	}
	if !m.DryRun && strings.TrimSpace(m.OutputDir) == "" && strings.TrimSpace(m.Archive) == "" {
		errs["output_dir"] = validation.NewError("blocksite.export.target_required", "output_dir or archive is required unless dry_run is set")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func uniqueOutputs(pages []interfaces.Page) error {
	owners := map[string]string{}
	for _, page := range pages {
		output, err := export.OutputPath(page.Slug)
		if err != nil {
			return validation.NewError("blocksite.export.slug_invalid", err.Error())
		}
		if owner, ok := owners[output]; ok {
			return validation.NewError("blocksite.export.slug_duplicate",
				fmt.Sprintf("slugs %q and %q both map to %s", owner, page.Slug, output))
		}
		owners[output] = page.Slug
	}
	return nil
}
