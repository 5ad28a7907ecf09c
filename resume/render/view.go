// Package render projects a résumé onto its visible fields and writes it as
// an HTML preview or a DOCX document.
package render

import (
	"regexp"
	"strings"

	"resume-improver/resume/model"
)

const (
	contactSeparator = "  |  "
	skillSeparator   = "  •  "
)

// Section headings, in document order.
const (
	HeadingSummary    = "Professional Summary"
	HeadingExperience = "Professional Experience"
	HeadingEducation  = "Education"
	HeadingSkills     = "Skills"
)

// LineKind selects the formatting of a visible line.
type LineKind string

const (
	LineName    LineKind = "name"
	LineTitle   LineKind = "title"
	LineContact LineKind = "contact"
	LineHeading LineKind = "sectionHeading"
	LineBody    LineKind = "body"
	LineRole    LineKind = "roleLine"
	LineMeta    LineKind = "meta"
	LineBullet  LineKind = "bullet"
)

// Line is one visible line of the rendered résumé.
type Line struct {
	Kind LineKind
	Text string
}

type ExperienceView struct {
	Position     string
	Company      string
	Duration     string
	Achievements []string
}

type EducationView struct {
	Degree      string
	Institution string
	Year        string
}

// View is the placeholder-free projection every renderer consumes.
type View struct {
	FullName   string
	Title      string
	Contact    string
	Summary    string
	Experience []ExperienceView
	Education  []EducationView
	Skills     []string
}

// BuildView sanitizes d and keeps only the fields that are shown.
func BuildView(d model.ResumeData) View {
	clean := model.Sanitize(d)

	var contact []string
	for _, part := range []string{clean.Contact.Email, clean.Contact.Phone, clean.Contact.Location} {
		if part != "" {
			contact = append(contact, part)
		}
	}

	v := View{
		FullName: clean.FullName,
		Title:    clean.Title,
		Contact:  strings.Join(contact, contactSeparator),
		Summary:  clean.Summary,
		Skills:   clean.Skills,
	}
	for _, exp := range clean.Experience {
		v.Experience = append(v.Experience, ExperienceView{
			Position:     exp.Position,
			Company:      exp.Company,
			Duration:     exp.Duration,
			Achievements: exp.Achievements,
		})
	}
	for _, edu := range clean.Education {
		v.Education = append(v.Education, EducationView{
			Degree:      edu.Degree,
			Institution: edu.Institution,
			Year:        edu.Year,
		})
	}
	return v
}

// SkillsLine joins the skills the way the document shows them.
func (v View) SkillsLine() string {
	return strings.Join(v.Skills, skillSeparator)
}

// Lines lists the visible lines in document order. Empty fields and empty
// sections produce no line.
func (v View) Lines() []Line {
	var lines []Line
	add := func(kind LineKind, text string) {
		if text != "" {
			lines = append(lines, Line{Kind: kind, Text: text})
		}
	}

	add(LineName, v.FullName)
	add(LineTitle, v.Title)
	add(LineContact, v.Contact)

	if v.Summary != "" {
		add(LineHeading, HeadingSummary)
		add(LineBody, v.Summary)
	}
	if len(v.Experience) > 0 {
		add(LineHeading, HeadingExperience)
		for _, exp := range v.Experience {
			add(LineRole, exp.Position)
			add(LineMeta, exp.Company)
			add(LineMeta, exp.Duration)
			for _, a := range exp.Achievements {
				add(LineBullet, a)
			}
		}
	}
	if len(v.Education) > 0 {
		add(LineHeading, HeadingEducation)
		for _, edu := range v.Education {
			add(LineRole, edu.Degree)
			add(LineMeta, edu.Institution)
			add(LineMeta, edu.Year)
		}
	}
	if len(v.Skills) > 0 {
		add(LineHeading, HeadingSkills)
		add(LineBody, v.SkillsLine())
	}
	return lines
}

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	unsafeFileChar = regexp.MustCompile(`[\\/:*?"<>|]`)
)

// FileName builds "<Full_Name>_Resume<ext>" for a download.
func FileName(fullName, ext string) string {
	name := unsafeFileChar.ReplaceAllString(model.CleanIdentity(fullName), "")
	name = whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_")
	if name == "" {
		return "Resume" + ext
	}
	return name + "_Resume" + ext
}
