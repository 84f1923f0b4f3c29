// Package sitemap renders sitemap.xml and robots.txt for the public site.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"time"

	"shorelands-backend/internal/listing/domain"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []url    `xml:"url"`
}

type url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type staticPage struct {
	path       string
	changeFreq string
	priority   string
}

var staticPages = []staticPage{
	{path: "", changeFreq: "yearly", priority: "0.8"},
	{path: "/properties/homes", changeFreq: "yearly", priority: "0.9"},
	{path: "/properties/land", changeFreq: "yearly", priority: "0.9"},
	{path: "/properties/all", changeFreq: "yearly", priority: "0.9"},
}

// Generator builds the sitemap for siteURL. lastMod is stamped on every entry.
type Generator struct {
	siteURL string
	lastMod string
}

func NewGenerator(siteURL string, lastMod time.Time) *Generator {
	return &Generator{
		siteURL: siteURL,
		lastMod: lastMod.Format("2006-01-02"),
	}
}

// Sitemap renders the static pages followed by one entry per listing.
func (g *Generator) Sitemap(index []domain.SlugIndexEntry) ([]byte, error) {
	set := urlSet{Xmlns: xmlns, URLs: make([]url, 0, len(staticPages)+len(index))}
	for _, p := range staticPages {
		set.URLs = append(set.URLs, url{Loc: g.siteURL + p.path, LastMod: g.lastMod, ChangeFreq: p.changeFreq, Priority: p.priority})
	}
	for _, e := range index {
		set.URLs = append(set.URLs, url{Loc: g.siteURL + "/property/" + e.Slug, LastMod: g.lastMod, ChangeFreq: "weekly", Priority: "1.0"})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render sitemap: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// Robots renders a robots.txt that allows everything and points at the sitemap.
func (g *Generator) Robots() string {
	return fmt.Sprintf("User-agent: *\nAllow: /\nSitemap: %s/sitemap.xml\n", g.siteURL)
}
