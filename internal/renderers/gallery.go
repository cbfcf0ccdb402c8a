package renderers

import (
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// GalleryType is the registry key for image grids.
const GalleryType = "gallery"

// GalleryImage is one tile.
type GalleryImage struct {
	Src     string `json:"src"`
	Alt     string `json:"alt"`
	Caption string `json:"caption"`
}

// GalleryData is the validated gallery payload.
type GalleryData struct {
	Title   string         `json:"title"`
	Columns int            `json:"columns"`
	Images  []GalleryImage `json:"images"`
}

// GallerySchema describes the gallery payload.
func GallerySchema() map[string]any {
	return objectSchema(map[string]any{
		"title":   str(""),
		"columns": map[string]any{"type": "integer", "minimum": 1, "maximum": 6, "default": 3},
		"images": arrayOf(objectSchema(map[string]any{
			"src":     requiredStr(),
			"alt":     str(""),
			"caption": str(""),
		}, "src"), 1),
	}, "images")
}

// Gallery renders a lazy-loaded image grid.
type Gallery struct{}

func NewGallery() *Gallery { return &Gallery{} }

var galleryTemplate = mustTemplate(GalleryType, `<section class="bs-section bs-gallery">
<div class="bs-container">
{{- with .Title}}
<h2>{{.}}</h2>
{{- end}}
<div class="bs-gallery__grid" style="--bs-columns:{{.Columns}}">
{{- range .Images}}
<figure class="bs-gallery__item">
<img src="{{.Src}}" alt="{{.Alt}}" loading="lazy">
{{- with .Caption}}
<figcaption>{{.}}</figcaption>
{{- end}}
</figure>
{{- end}}
</div>
</div>
</section>`)

func (g *Gallery) Render(data GalleryData, _ interfaces.RenderContext) (interfaces.RenderFragment, error) {
	if data.Columns < 1 || data.Columns > 6 {
		data.Columns = 3
	}
	html, err := execute(galleryTemplate, data)
	if err != nil {
		return interfaces.RenderFragment{}, err
	}
	fragment := interfaces.RenderFragment{HTML: html, CSS: g.DefaultStyles()}
	paths := make([]string, 0, len(data.Images))
	for _, image := range data.Images {
		paths = append(paths, image.Src)
		if image.Alt == "" {
			fragment.Warnings = append(fragment.Warnings, "gallery image "+image.Src+" has no alt text")
		}
	}
	fragment.Assets = collectImages(paths...)
	return fragment, nil
}

func (g *Gallery) DefaultData() GalleryData {
	return GalleryData{Columns: 3}
}

func (g *Gallery) DefaultStyles() string {
	return sectionStyles + `.bs-gallery__grid{display:grid;gap:1rem;grid-template-columns:repeat(var(--bs-columns,3),minmax(0,1fr))}
.bs-gallery__item{margin:0}
.bs-gallery__item img{display:block;width:100%;height:auto;border-radius:.375rem}
.bs-gallery__item figcaption{margin-top:.5rem;font-size:.875rem;color:#64748b}
@media (max-width:640px){.bs-gallery__grid{grid-template-columns:repeat(2,minmax(0,1fr))}}
`
}
