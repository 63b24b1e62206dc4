package render

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/thenoobmlengineer/personal-portfolio/internal/model"
)

// SkillGroup is the skills of one category in input order.
type SkillGroup struct {
	Category string
	Skills   []model.Skill
}

// GroupSkills partitions skills by category, categories in first-seen order.
func GroupSkills(skills []model.Skill) []SkillGroup {
	var groups []SkillGroup
	index := make(map[string]int)
	for _, s := range skills {
		i, ok := index[s.Category]
		if !ok {
			i = len(groups)
			index[s.Category] = i
			groups = append(groups, SkillGroup{Category: s.Category})
		}
		groups[i].Skills = append(groups[i].Skills, s)
	}
	return groups
}

// Skills appends one heading and list per category to container.
func (r *Renderer) Skills(container *html.Node, skills []model.Skill) {
	for _, g := range GroupSkills(skills) {
		category := element(atom.Div, class(ClassSkillCategory))
		category.AppendChild(textElement(atom.H3, g.Category))

		list := element(atom.Ul, class(ClassSkillList))
		for _, s := range g.Skills {
			list.AppendChild(textElement(atom.Li, skillLabel(s)))
		}
		category.AppendChild(list)
		container.AppendChild(category)
	}
}

func skillLabel(s model.Skill) string {
	if s.Level == "" {
		return s.Name
	}
	return s.Name + " (" + s.Level + ")"
}
