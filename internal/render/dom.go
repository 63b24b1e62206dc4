// Package render builds the section markup of the home page as html.Node
// trees. Every renderer appends to a caller-supplied container and never
// clears it, so rendering twice duplicates content.
package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/thenoobmlengineer/personal-portfolio/internal/datefmt"
)

// Class names shared with the site stylesheet.
const (
	ClassProjectItem   = "project-item"
	ClassProjectDate   = "project-date"
	ClassProjectTitle  = "project-title"
	ClassSkillCategory = "skill-category"
	ClassSkillList     = "skill-list"
	ClassGallery       = "gallery"
	ClassMediaItem     = "media-item"
)

// Renderer renders data sections. The zero value formats dates as en-US.
type Renderer struct {
	dates *datefmt.Formatter
}

// New returns a Renderer that formats dates with f.
func New(f *datefmt.Formatter) *Renderer {
	return &Renderer{dates: f}
}

func (r *Renderer) formatDate(s string) string {
	if r == nil || r.dates == nil {
		return datefmt.Format(s)
	}
	return r.dates.Format(s)
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func class(name string) html.Attribute {
	return attr("class", name)
}

// textElement returns an element holding the text s.
func textElement(a atom.Atom, s string, attrs ...html.Attribute) *html.Node {
	n := element(a, attrs...)
	n.AppendChild(textNode(s))
	return n
}

func appendChildren(parent *html.Node, children ...*html.Node) {
	for _, c := range children {
		parent.AppendChild(c)
	}
}

// FindByID walks n depth-first and returns the first element whose id is id.
func FindByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && AttrValue(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := FindByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// FindElement returns the first element with the given atom.
func FindElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := FindElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// AttrValue returns the value of key on n, or "".
func AttrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasClass reports whether n carries the class name.
func HasClass(n *html.Node, name string) bool {
	for _, c := range strings.Fields(AttrValue(n, "class")) {
		if c == name {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, attr(key, val))
}

func setClass(n *html.Node, name string, on bool) {
	var classes []string
	for _, c := range strings.Fields(AttrValue(n, "class")) {
		if c != name {
			classes = append(classes, c)
		}
	}
	if on {
		classes = append(classes, name)
	}

	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == "class" {
			if len(classes) == 0 {
				n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			} else {
				n.Attr[i].Val = strings.Join(classes, " ")
			}
			return
		}
	}
	if len(classes) > 0 {
		n.Attr = append(n.Attr, class(strings.Join(classes, " ")))
	}
}
