package render

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/thenoobmlengineer/personal-portfolio/internal/model"
)

const noPhotosMessage = "No photographs uploaded yet."

// Photos appends a gallery with one figure per photo, or a placeholder
// paragraph when there are none.
func (r *Renderer) Photos(container *html.Node, photos []model.Photo) {
	if len(photos) == 0 {
		container.AppendChild(placeholder(noPhotosMessage))
		return
	}

	gallery := element(atom.Div, class(ClassGallery))
	for _, p := range photos {
		figure := element(atom.Figure)
		appendChildren(figure,
			element(atom.Img, attr("src", p.Image), attr("alt", p.Title)),
			textElement(atom.Figcaption, p.Title),
		)
		gallery.AppendChild(figure)
	}
	container.AppendChild(gallery)
}

func placeholder(msg string) *html.Node {
	return textElement(atom.P, msg, class("placeholder"))
}
