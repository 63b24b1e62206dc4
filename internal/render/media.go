package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/thenoobmlengineer/personal-portfolio/internal/model"
)

const (
	noMediaMessage = "No books or movies logged yet."
	metaSeparator  = " • "
)

var mediaBuckets = []struct {
	kind    string
	heading string
}{
	{model.MediaBook, "Books"},
	{model.MediaMovie, "Movies"},
}

// Media appends books then movies, each under its own heading. Entries of any
// other type are dropped and empty buckets emit nothing.
func (r *Renderer) Media(container *html.Node, entries []model.MediaEntry) {
	if len(entries) == 0 {
		container.AppendChild(placeholder(noMediaMessage))
		return
	}

	for _, b := range mediaBuckets {
		var bucket []model.MediaEntry
		for _, e := range entries {
			if e.Type == b.kind {
				bucket = append(bucket, e)
			}
		}
		if len(bucket) == 0 {
			continue
		}

		container.AppendChild(textElement(atom.H2, b.heading, class("media-heading")))
		for _, e := range bucket {
			container.AppendChild(mediaItem(e))
		}
	}
}

func mediaItem(e model.MediaEntry) *html.Node {
	item := element(atom.Div, class(ClassMediaItem))

	title := element(atom.H3)
	appendChildren(title,
		textNode(e.Title+" "),
		textElement(atom.Span, e.Type, class("media-type")),
	)
	item.AppendChild(title)

	if meta := mediaMeta(e); meta != "" {
		item.AppendChild(textElement(atom.P, meta, class("media-meta")))
	}
	if e.Description != "" {
		item.AppendChild(textElement(atom.P, e.Description, class("media-description")))
	}
	return item
}

func mediaMeta(e model.MediaEntry) string {
	var parts []string
	if e.Author != "" {
		parts = append(parts, "Author: "+e.Author)
	}
	if e.Director != "" {
		parts = append(parts, "Director: "+e.Director)
	}
	if e.Year != "" {
		parts = append(parts, "Year: "+e.Year.String())
	}
	return strings.Join(parts, metaSeparator)
}
