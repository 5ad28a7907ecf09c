package model

import "strings"

// placeholders are matched as lowercase substrings in free-text fields and as
// whole values in identity fields.
var placeholders = []string{
	"not provided",
	"not available",
	"n/a",
	"unknown",
	"none",
	"graduation year not provided",
}

// IsPlaceholder reports whether s is empty or carries placeholder text.
func IsPlaceholder(s string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return true
	}
	for _, p := range placeholders {
		if strings.Contains(trimmed, p) {
			return true
		}
	}
	return false
}

// IsPlaceholderValue reports whether s is empty or is exactly a placeholder.
// Text that only contains one, like "Unknown Pleasures Ltd", is kept.
func IsPlaceholderValue(s string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return true
	}
	for _, p := range placeholders {
		if trimmed == p {
			return true
		}
	}
	return false
}

// CleanIdentity returns s trimmed, or "" when the whole value is a placeholder.
// Names, titles, companies, positions, institutions and degrees use it.
func CleanIdentity(s string) string {
	if IsPlaceholderValue(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

// Clean returns s trimmed, or "" when it is a placeholder.
func Clean(s string) string {
	if IsPlaceholder(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

// CleanList drops placeholder entries and trims the rest.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if v := Clean(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Sanitize replaces every placeholder field with an empty string and drops
// placeholder list entries. Identity fields are cleared only when their whole
// value is a placeholder. Entries left with nothing visible are removed.
func Sanitize(d ResumeData) ResumeData {
	out := ResumeData{
		FullName: CleanIdentity(d.FullName),
		Title:    CleanIdentity(d.Title),
		Summary:  Clean(d.Summary),
		Skills:   CleanList(d.Skills),
		Contact: Contact{
			Email:    Clean(d.Contact.Email),
			Phone:    Clean(d.Contact.Phone),
			Location: Clean(d.Contact.Location),
		},
	}
	out.Experience = make([]Experience, 0, len(d.Experience))
	for _, exp := range d.Experience {
		e := Experience{
			Company:      CleanIdentity(exp.Company),
			Position:     CleanIdentity(exp.Position),
			Duration:     Clean(exp.Duration),
			Achievements: CleanList(exp.Achievements),
		}
		if e.Company == "" && e.Position == "" && len(e.Achievements) == 0 {
			continue
		}
		out.Experience = append(out.Experience, e)
	}
	out.Education = make([]Education, 0, len(d.Education))
	for _, edu := range d.Education {
		e := Education{
			Institution: CleanIdentity(edu.Institution),
			Degree:      CleanIdentity(edu.Degree),
			Year:        Clean(edu.Year),
		}
		if e.Institution == "" && e.Degree == "" {
			continue
		}
		out.Education = append(out.Education, e)
	}
	return out
}
