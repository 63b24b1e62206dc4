package render

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DarkModeClass is set on <body> while the dark theme is active.
const DarkModeClass = "dark-mode"

// ThemeAttr on <body> carries a theme the user chose, "dark" or "light".
// Pages without it follow the visitor's own preference.
const ThemeAttr = "data-theme"

// BodyMarker reflects the theme onto the body element of a parsed document.
type BodyMarker struct {
	Doc *html.Node
}

// SetDark adds or removes DarkModeClass on <body>. Documents without a body
// are left alone.
func (m BodyMarker) SetDark(dark bool) {
	if m.Doc == nil {
		return
	}
	body := FindElement(m.Doc, atom.Body)
	if body == nil {
		return
	}
	setClass(body, DarkModeClass, dark)
}

// Pin records a chosen theme on <body>: ThemeAttr is set and DarkModeClass
// follows it.
func (m BodyMarker) Pin(dark bool) {
	if m.Doc == nil {
		return
	}
	body := FindElement(m.Doc, atom.Body)
	if body == nil {
		return
	}
	value := "light"
	if dark {
		value = "dark"
	}
	setAttr(body, ThemeAttr, value)
	setClass(body, DarkModeClass, dark)
}
