package export

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

const (
	sitemapFile     = "sitemap.xml"
	robotsFile      = "robots.txt"
	webManifestFile = "manifest.webmanifest"
	localBaseURL    = "http://localhost"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Location   string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// buildSitemap lists every exported page. The home page gets priority 1.0,
// every other page 0.8.
func buildSitemap(baseURL string, htmlFiles []string, exportedAt time.Time) ([]byte, error) {
	base := baseURL
	if base == "" {
		base = localBaseURL
	}
	set := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, 0, len(htmlFiles)),
	}
	lastMod := exportedAt.UTC().Format("2006-01-02")
	for _, file := range htmlFiles {
		location := base + "/" + file
		priority := "0.8"
		if file == homeFile {
			location = base + "/"
			priority = "1.0"
		}
		set.URLs = append(set.URLs, sitemapURL{
			Location:   location,
			LastMod:    lastMod,
			ChangeFreq: "weekly",
			Priority:   priority,
		})
	}
	encoded, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	return append([]byte(xml.Header), append(encoded, '\n')...), nil
}

func buildRobots(baseURL string, includeSitemap bool) []byte {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	if includeSitemap {
		base := baseURL
		if base == "" {
			base = localBaseURL
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Sitemap: %s/sitemap.xml\n", base))
	}
	return []byte(b.String())
}

type webManifest struct {
	Name            string `json:"name"`
	ShortName       string `json:"short_name"`
	StartURL        string `json:"start_url"`
	Display         string `json:"display"`
	ThemeColor      string `json:"theme_color,omitempty"`
	BackgroundColor string `json:"background_color"`
	Lang            string `json:"lang,omitempty"`
}

func buildWebManifest(site interfaces.Site) ([]byte, error) {
	name := strings.TrimSpace(site.Name)
	if name == "" {
		name = "Site"
	}
	short := name
	if runes := []rune(short); len(runes) > 12 {
		short = strings.TrimSpace(string(runes[:12]))
	}
	background := "#ffffff"
	if value, ok := site.Theme.Extra["background"]; ok && strings.TrimSpace(value) != "" {
		background = strings.TrimSpace(value)
	}
	encoded, err := json.MarshalIndent(webManifest{
		Name:            name,
		ShortName:       short,
		StartURL:        "./",
		Display:         "standalone",
		ThemeColor:      strings.TrimSpace(site.Theme.PrimaryColor),
		BackgroundColor: background,
		Lang:            strings.TrimSpace(site.Lang),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode web manifest: %w", err)
	}
	return append(encoded, '\n'), nil
}
