package render

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/thenoobmlengineer/personal-portfolio/internal/datefmt"
	"github.com/thenoobmlengineer/personal-portfolio/internal/model"
)

func newContainer() *html.Node {
	return element(atom.Div, attr("id", "root"))
}

func children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func byClass(name string) func(*html.Node) bool {
	return func(n *html.Node) bool { return HasClass(n, name) }
}

func byAtom(a atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.DataAtom == a }
}

func renderString(t *testing.T, n *html.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, html.Render(&buf, n))
	return buf.String()
}

func TestProjects_YearHeadingsInOrder(t *testing.T) {
	container := newContainer()
	projects := []model.Project{
		{Title: "A", Date: "2023-05-01"},
		{Title: "B", Date: "2024-01-01"},
	}

	New(datefmt.New("en-US")).Projects(container, projects)

	kids := children(container)
	require.Len(t, kids, 4)
	assert.Equal(t, atom.H2, kids[0].DataAtom)
	assert.Equal(t, "2024", textOf(kids[0]))
	assert.True(t, HasClass(kids[1], ClassProjectItem))
	assert.Contains(t, textOf(kids[1]), "B")
	assert.Equal(t, "2023", textOf(kids[2]))
	assert.Contains(t, textOf(kids[3]), "A")

	// Sorted in place.
	assert.Equal(t, "B", projects[0].Title)
	assert.Equal(t, "A", projects[1].Title)
}

func TestProjects_ItemStructure(t *testing.T) {
	container := newContainer()
	(&Renderer{}).Projects(container, []model.Project{
		{Title: "Linked", Description: "has a link", Date: "2024-03-02", Link: "https://example.com"},
		{Title: "Plain", Description: "no link", Date: "2024-01-15"},
	})

	items := findAll(container, byClass(ClassProjectItem))
	require.Len(t, items, 2)

	dates := findAll(items[0], byClass(ClassProjectDate))
	require.Len(t, dates, 1)
	assert.Equal(t, "Mar 2, 2024", textOf(dates[0]))

	titles := findAll(items[0], byClass(ClassProjectTitle))
	require.Len(t, titles, 1)
	link := FindElement(titles[0], atom.A)
	require.NotNil(t, link)
	assert.Equal(t, "https://example.com", AttrValue(link, "href"))
	assert.Equal(t, "_blank", AttrValue(link, "target"))
	assert.Equal(t, "noopener noreferrer", AttrValue(link, "rel"))
	assert.Contains(t, textOf(items[0]), "has a link")

	plain := FindElement(items[1], atom.A)
	require.NotNil(t, plain)
	assert.Equal(t, "Plain", textOf(plain))
	assert.Empty(t, AttrValue(plain, "href"))
	assert.Empty(t, AttrValue(plain, "target"))
}

func TestProjects_UndatedGoLast(t *testing.T) {
	container := newContainer()
	projects := []model.Project{
		{Title: "Mystery", Date: "someday"},
		{Title: "Known", Date: "2020-02-02"},
	}
	(&Renderer{}).Projects(container, projects)

	headings := findAll(container, byAtom(atom.H2))
	require.Len(t, headings, 2)
	assert.Equal(t, "2020", textOf(headings[0]))
	assert.Equal(t, UndatedHeading, textOf(headings[1]))

	dates := findAll(container, byClass(ClassProjectDate))
	assert.Equal(t, datefmt.InvalidDate, textOf(dates[1]))
}

func TestProjects_EachCallStartsFresh(t *testing.T) {
	container := newContainer()
	r := &Renderer{}
	r.Projects(container, []model.Project{{Title: "A", Date: "2024-01-01"}})
	r.Projects(container, []model.Project{{Title: "B", Date: "2024-06-01"}})

	// Rendering twice duplicates content, including the heading.
	headings := findAll(container, byAtom(atom.H2))
	require.Len(t, headings, 2)
	assert.Equal(t, "2024", textOf(headings[0]))
	assert.Equal(t, "2024", textOf(headings[1]))
}

func TestProjects_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		n := rng.Intn(20)
		projects := make([]model.Project, n)
		for i := range projects {
			projects[i] = model.Project{
				Title: fmt.Sprintf("p%d", i),
				Date:  fmt.Sprintf("%d-%02d-%02d", 2015+rng.Intn(10), 1+rng.Intn(12), 1+rng.Intn(28)),
			}
		}

		container := newContainer()
		(&Renderer{}).Projects(container, projects)

		// Dates are non-increasing in emitted order.
		for i := 1; i < len(projects); i++ {
			prev, _ := datefmt.Parse(projects[i-1].Date)
			cur, _ := datefmt.Parse(projects[i].Date)
			assert.False(t, cur.After(prev), "round %d: %s after %s", round, projects[i].Date, projects[i-1].Date)
		}

		// One heading per distinct year, in first-seen order.
		var wantYears []string
		seen := map[string]bool{}
		for _, p := range projects {
			y := p.Date[:4]
			if !seen[y] {
				seen[y] = true
				wantYears = append(wantYears, y)
			}
		}
		var gotYears []string
		for _, h := range findAll(container, byAtom(atom.H2)) {
			gotYears = append(gotYears, textOf(h))
		}
		assert.Equal(t, wantYears, gotYears)
		assert.Len(t, findAll(container, byClass(ClassProjectItem)), n)
	}
}

func TestSkills_GroupsByCategory(t *testing.T) {
	container := newContainer()
	skills := []model.Skill{
		{Name: "Go", Category: "Languages", Level: "Advanced"},
		{Name: "Docker", Category: "Tools"},
		{Name: "Python", Category: "Languages"},
		{Name: "Git", Category: "Tools", Level: "Daily"},
	}
	(&Renderer{}).Skills(container, skills)

	categories := findAll(container, byClass(ClassSkillCategory))
	require.Len(t, categories, 2)

	assert.Equal(t, "Languages", textOf(FindElement(categories[0], atom.H3)))
	assert.Equal(t, "Tools", textOf(FindElement(categories[1], atom.H3)))

	lists := findAll(categories[0], byClass(ClassSkillList))
	require.Len(t, lists, 1)
	items := findAll(lists[0], byAtom(atom.Li))
	require.Len(t, items, 2)
	assert.Equal(t, "Go (Advanced)", textOf(items[0]))
	assert.Equal(t, "Python", textOf(items[1]))

	items = findAll(categories[1], byAtom(atom.Li))
	require.Len(t, items, 2)
	assert.Equal(t, "Docker", textOf(items[0]))
	assert.Equal(t, "Git (Daily)", textOf(items[1]))
}

func TestSkills_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cats := []string{"a", "b", "c", "d"}
	for round := 0; round < 50; round++ {
		n := rng.Intn(15)
		skills := make([]model.Skill, n)
		distinct := map[string]bool{}
		for i := range skills {
			c := cats[rng.Intn(len(cats))]
			distinct[c] = true
			skills[i] = model.Skill{Name: fmt.Sprintf("s%02d", i), Category: c}
		}

		container := newContainer()
		(&Renderer{}).Skills(container, skills)

		categories := findAll(container, byClass(ClassSkillCategory))
		assert.Len(t, categories, len(distinct))
		for _, cat := range categories {
			var names []string
			for _, li := range findAll(cat, byAtom(atom.Li)) {
				names = append(names, textOf(li))
			}
			// Names were generated in increasing order, so input order means sorted.
			assert.IsNonDecreasing(t, names)
		}
	}
}

func TestPhotos_Placeholder(t *testing.T) {
	for _, photos := range [][]model.Photo{nil, {}} {
		container := newContainer()
		(&Renderer{}).Photos(container, photos)

		kids := children(container)
		require.Len(t, kids, 1)
		assert.Equal(t, atom.P, kids[0].DataAtom)
		assert.Equal(t, "No photographs uploaded yet.", textOf(kids[0]))
		assert.Empty(t, findAll(container, byClass(ClassGallery)))
	}
}

func TestPhotos_Gallery(t *testing.T) {
	container := newContainer()
	(&Renderer{}).Photos(container, []model.Photo{
		{Title: "Dawn", Description: "ignored", Image: "/img/dawn.jpg"},
		{Title: "Dusk", Image: "/img/dusk.jpg"},
	})

	galleries := findAll(container, byClass(ClassGallery))
	require.Len(t, galleries, 1)
	figures := findAll(galleries[0], byAtom(atom.Figure))
	require.Len(t, figures, 2)

	img := FindElement(figures[0], atom.Img)
	require.NotNil(t, img)
	assert.Equal(t, "/img/dawn.jpg", AttrValue(img, "src"))
	assert.Equal(t, "Dawn", AttrValue(img, "alt"))
	assert.Equal(t, "Dawn", textOf(FindElement(figures[0], atom.Figcaption)))
	assert.NotContains(t, renderString(t, container), "ignored")
}

func TestMedia_Placeholder(t *testing.T) {
	container := newContainer()
	(&Renderer{}).Media(container, nil)

	kids := children(container)
	require.Len(t, kids, 1)
	assert.Equal(t, "No books or movies logged yet.", textOf(kids[0]))
}

func TestMedia_OnlyMovies(t *testing.T) {
	container := newContainer()
	(&Renderer{}).Media(container, []model.MediaEntry{
		{Type: "Movie", Title: "Alien", Director: "Ridley Scott", Year: "1979"},
		{Type: "Podcast", Title: "Dropped"},
		{Type: "Movie", Title: "Heat"},
	})

	headings := findAll(container, byAtom(atom.H2))
	require.Len(t, headings, 1)
	assert.Equal(t, "Movies", textOf(headings[0]))

	items := findAll(container, byClass(ClassMediaItem))
	require.Len(t, items, 2)
	assert.Contains(t, textOf(items[0]), "Alien")
	assert.Contains(t, textOf(items[1]), "Heat")
	assert.NotContains(t, textOf(container), "Dropped")

	meta := findAll(items[0], byClass("media-meta"))
	require.Len(t, meta, 1)
	assert.Equal(t, "Director: Ridley Scott • Year: 1979", textOf(meta[0]))

	// No present fields, no metadata line.
	assert.Empty(t, findAll(items[1], byClass("media-meta")))
}

func TestMedia_BooksBeforeMovies(t *testing.T) {
	container := newContainer()
	(&Renderer{}).Media(container, []model.MediaEntry{
		{Type: "Movie", Title: "Heat"},
		{Type: "Book", Title: "Dune", Author: "Frank Herbert", Year: "1965", Description: "Spice."},
		{Type: "Book", Title: "Emma"},
	})

	kids := children(container)
	require.Len(t, kids, 5)
	assert.Equal(t, "Books", textOf(kids[0]))
	assert.Contains(t, textOf(kids[1]), "Dune")
	assert.Contains(t, textOf(kids[2]), "Emma")
	assert.Equal(t, "Movies", textOf(kids[3]))
	assert.Contains(t, textOf(kids[4]), "Heat")

	tag := findAll(kids[1], byClass("media-type"))
	require.Len(t, tag, 1)
	assert.Equal(t, "Book", textOf(tag[0]))
	assert.Equal(t, "Author: Frank Herbert • Year: 1965", textOf(findAll(kids[1], byClass("media-meta"))[0]))
	assert.Equal(t, "Spice.", textOf(findAll(kids[1], byClass("media-description"))[0]))
	assert.Empty(t, findAll(kids[2], byClass("media-description")))
}

func TestMedia_OnlyUnknownTypes(t *testing.T) {
	container := newContainer()
	(&Renderer{}).Media(container, []model.MediaEntry{{Type: "Album", Title: "X"}})
	assert.Nil(t, container.FirstChild)
}

func TestRenderers_KeepExistingContent(t *testing.T) {
	container := newContainer()
	container.AppendChild(textElement(atom.P, "intro"))

	(&Renderer{}).Photos(container, nil)

	kids := children(container)
	require.Len(t, kids, 2)
	assert.Equal(t, "intro", textOf(kids[0]))
}

func TestBodyMarker(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<html><body class="page"></body></html>`))
	require.NoError(t, err)
	body := FindElement(doc, atom.Body)

	m := BodyMarker{Doc: doc}
	m.SetDark(true)
	assert.True(t, HasClass(body, DarkModeClass))
	assert.True(t, HasClass(body, "page"))

	m.SetDark(true)
	assert.Equal(t, "page dark-mode", AttrValue(body, "class"))

	m.SetDark(false)
	assert.False(t, HasClass(body, DarkModeClass))
	assert.Equal(t, "page", AttrValue(body, "class"))

	BodyMarker{}.SetDark(true)
}

func TestBodyMarker_Pin(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<html><body></body></html>`))
	require.NoError(t, err)
	body := FindElement(doc, atom.Body)

	m := BodyMarker{Doc: doc}
	m.Pin(true)
	assert.Equal(t, "dark", AttrValue(body, ThemeAttr))
	assert.True(t, HasClass(body, DarkModeClass))

	m.Pin(false)
	assert.Equal(t, "light", AttrValue(body, ThemeAttr))
	assert.False(t, HasClass(body, DarkModeClass))
	assert.Len(t, body.Attr, 1)

	BodyMarker{}.Pin(true)
}
