package model

import (
	"html/template"
	"time"
)

// ContentItem represents a single Markdown page under content/.
type ContentItem struct {
	Title       string
	Date        time.Time
	SourcePath  string
	Permalink   string
	ContentHTML template.HTML
	Frontmatter map[string]interface{}
	Summary     string
	Layout      string
}

// SiteData holds site-wide values exposed to layouts.
type SiteData struct {
	Title    string
	BaseURL  string
	Language string
	Pages    []*ContentItem
}

// PageData is the value a layout is executed with. Item is nil for the home page.
type PageData struct {
	Site *SiteData
	Item *ContentItem
}
