package render

import (
	"sort"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/thenoobmlengineer/personal-portfolio/internal/datefmt"
	"github.com/thenoobmlengineer/personal-portfolio/internal/model"
)

// UndatedHeading groups projects whose date cannot be parsed.
const UndatedHeading = "Undated"

// SortProjects orders projects by descending date, in place. Projects with an
// unparsable date go last and keep their relative order.
func SortProjects(projects []model.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		ti, okI := datefmt.Parse(projects[i].Date)
		tj, okJ := datefmt.Parse(projects[j].Date)
		if !okI {
			return false
		}
		if !okJ {
			return true
		}
		return ti.After(tj)
	})
}

func projectYear(date string) string {
	t, ok := datefmt.Parse(date)
	if !ok {
		return UndatedHeading
	}
	return strconv.Itoa(t.Year())
}

// Projects sorts projects in place and appends them to container, with an
// h2 year heading before the first project of each year.
func (r *Renderer) Projects(container *html.Node, projects []model.Project) {
	SortProjects(projects)

	currentYear := ""
	started := false
	for _, p := range projects {
		year := projectYear(p.Date)
		if !started || year != currentYear {
			container.AppendChild(textElement(atom.H2, year, class("project-year")))
			currentYear = year
			started = true
		}
		container.AppendChild(r.projectItem(p))
	}
}

func (r *Renderer) projectItem(p model.Project) *html.Node {
	item := element(atom.Div, class(ClassProjectItem))

	var link *html.Node
	if p.Link != "" {
		link = textElement(atom.A, p.Title,
			attr("href", p.Link),
			attr("target", "_blank"),
			attr("rel", "noopener noreferrer"),
		)
	} else {
		// An anchor without href is a placeholder link and does not navigate.
		link = textElement(atom.A, p.Title)
	}
	title := element(atom.H3, class(ClassProjectTitle))
	title.AppendChild(link)

	appendChildren(item,
		textElement(atom.Span, r.formatDate(p.Date), class(ClassProjectDate)),
		title,
		textElement(atom.P, p.Description, class("project-description")),
	)
	return item
}
