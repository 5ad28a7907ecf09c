package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ShapeError reports the first field of a payload that does not match the expected shape.
type ShapeError struct {
	Path   string
	Reason string
}

func (e *ShapeError) Error() string {
	if e.Path == "" {
		return "invalid payload: " + e.Reason
	}
	return fmt.Sprintf("invalid payload at %s: %s", e.Path, e.Reason)
}

// Bounds on each ResumeAnalysis list.
const (
	MinFeedbackItems = 3
	MaxFeedbackItems = 5
)

// DecodeAnalysis validates raw as a ResumeAnalysis with 3 to 5 strengths and
// 3 to 5 improvements.
func DecodeAnalysis(raw []byte) (ResumeAnalysis, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return ResumeAnalysis{}, err
	}
	var out ResumeAnalysis
	if out.Strengths, err = feedbackList(obj, "strengths"); err != nil {
		return ResumeAnalysis{}, err
	}
	if out.Improvements, err = feedbackList(obj, "improvements"); err != nil {
		return ResumeAnalysis{}, err
	}
	return out, nil
}

func feedbackList(obj map[string]any, key string) ([]string, error) {
	items, err := stringList(obj, key, key, true)
	if err != nil {
		return nil, err
	}
	if n := len(items); n < MinFeedbackItems || n > MaxFeedbackItems {
		return nil, &ShapeError{Path: key, Reason: fmt.Sprintf("expected %d to %d items, got %d", MinFeedbackItems, MaxFeedbackItems, n)}
	}
	return items, nil
}

// DecodeJobAnalysis validates raw as a JobAnalysis. Importance must be required or preferred.
func DecodeJobAnalysis(raw []byte) (JobAnalysis, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return JobAnalysis{}, err
	}
	items, err := objectList(obj, "missingSkills", "missingSkills", true)
	if err != nil {
		return JobAnalysis{}, err
	}
	out := JobAnalysis{MissingSkills: make([]MissingSkill, 0, len(items))}
	for i, item := range items {
		path := fmt.Sprintf("missingSkills[%d]", i)
		name, err := str(item, "name", path+".name", true)
		if err != nil {
			return JobAnalysis{}, err
		}
		if strings.TrimSpace(name) == "" {
			return JobAnalysis{}, &ShapeError{Path: path + ".name", Reason: "empty"}
		}
		importance, err := str(item, "importance", path+".importance", true)
		if err != nil {
			return JobAnalysis{}, err
		}
		importance = strings.ToLower(strings.TrimSpace(importance))
		if importance != ImportanceRequired && importance != ImportancePreferred {
			return JobAnalysis{}, &ShapeError{Path: path + ".importance", Reason: fmt.Sprintf("unexpected value %q", importance)}
		}
		out.MissingSkills = append(out.MissingSkills, MissingSkill{Name: strings.TrimSpace(name), Importance: importance})
	}
	if out.MatchingSkills, err = stringList(obj, "matchingSkills", "matchingSkills", true); err != nil {
		return JobAnalysis{}, err
	}
	if out.IrrelevantSkills, err = stringList(obj, "irrelevantSkills", "irrelevantSkills", true); err != nil {
		return JobAnalysis{}, err
	}
	return out, nil
}

// DecodeResumeData validates raw as a ResumeData.
func DecodeResumeData(raw []byte) (ResumeData, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return ResumeData{}, err
	}
	return resumeFromObject(obj, true)
}

// DecodeResumeInput validates client-supplied résumé data. Only fullName, title
// and summary must be present; absent lists decode as empty.
func DecodeResumeInput(raw []byte) (ResumeData, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return ResumeData{}, err
	}
	return resumeFromObject(obj, false)
}

// MissingRequiredField returns the first of fullName, title and summary that is
// absent or empty in raw, or "" when all are set.
func MissingRequiredField(raw []byte) string {
	obj, err := decodeObject(raw)
	if err != nil {
		return "fullName"
	}
	for _, field := range []string{"fullName", "title", "summary"} {
		s, ok := obj[field].(string)
		if !ok || strings.TrimSpace(s) == "" {
			return field
		}
	}
	return ""
}

func resumeFromObject(obj map[string]any, listsRequired bool) (ResumeData, error) {
	var out ResumeData
	var err error
	if out.FullName, err = str(obj, "fullName", "fullName", true); err != nil {
		return ResumeData{}, err
	}
	if out.Title, err = str(obj, "title", "title", true); err != nil {
		return ResumeData{}, err
	}
	if out.Summary, err = str(obj, "summary", "summary", true); err != nil {
		return ResumeData{}, err
	}
	if out.Skills, err = stringList(obj, "skills", "skills", listsRequired); err != nil {
		return ResumeData{}, err
	}

	exps, err := objectList(obj, "experience", "experience", listsRequired)
	if err != nil {
		return ResumeData{}, err
	}
	out.Experience = make([]Experience, 0, len(exps))
	for i, item := range exps {
		path := fmt.Sprintf("experience[%d]", i)
		var e Experience
		if e.Company, err = str(item, "company", path+".company", true); err != nil {
			return ResumeData{}, err
		}
		if e.Position, err = str(item, "position", path+".position", true); err != nil {
			return ResumeData{}, err
		}
		if e.Duration, err = str(item, "duration", path+".duration", false); err != nil {
			return ResumeData{}, err
		}
		if e.Achievements, err = stringList(item, "achievements", path+".achievements", false); err != nil {
			return ResumeData{}, err
		}
		out.Experience = append(out.Experience, e)
	}

	edus, err := objectList(obj, "education", "education", listsRequired)
	if err != nil {
		return ResumeData{}, err
	}
	out.Education = make([]Education, 0, len(edus))
	for i, item := range edus {
		path := fmt.Sprintf("education[%d]", i)
		var e Education
		if e.Institution, err = str(item, "institution", path+".institution", true); err != nil {
			return ResumeData{}, err
		}
		if e.Degree, err = str(item, "degree", path+".degree", true); err != nil {
			return ResumeData{}, err
		}
		if e.Year, err = str(item, "year", path+".year", false); err != nil {
			return ResumeData{}, err
		}
		out.Education = append(out.Education, e)
	}

	contact, err := object(obj, "contact", "contact", false)
	if err != nil {
		return ResumeData{}, err
	}
	if contact != nil {
		if out.Contact.Email, err = str(contact, "email", "contact.email", false); err != nil {
			return ResumeData{}, err
		}
		if out.Contact.Phone, err = str(contact, "phone", "contact.phone", false); err != nil {
			return ResumeData{}, err
		}
		if out.Contact.Location, err = str(contact, "location", "contact.location", false); err != nil {
			return ResumeData{}, err
		}
	}
	return out, nil
}

func decodeObject(raw []byte) (map[string]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, &ShapeError{Reason: "empty"}
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &ShapeError{Reason: "not JSON: " + err.Error()}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &ShapeError{Reason: fmt.Sprintf("expected object, got %s", kindOf(v))}
	}
	return obj, nil
}

// lookup treats JSON null as absent.
func lookup(obj map[string]any, key, path string, required bool) (any, bool, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		if required {
			return nil, false, &ShapeError{Path: path, Reason: "missing"}
		}
		return nil, false, nil
	}
	return v, true, nil
}

func str(obj map[string]any, key, path string, required bool) (string, error) {
	v, ok, err := lookup(obj, key, path, required)
	if err != nil || !ok {
		return "", err
	}
	s, isString := v.(string)
	if !isString {
		return "", &ShapeError{Path: path, Reason: fmt.Sprintf("expected string, got %s", kindOf(v))}
	}
	return s, nil
}

func object(obj map[string]any, key, path string, required bool) (map[string]any, error) {
	v, ok, err := lookup(obj, key, path, required)
	if err != nil || !ok {
		return nil, err
	}
	m, isObject := v.(map[string]any)
	if !isObject {
		return nil, &ShapeError{Path: path, Reason: fmt.Sprintf("expected object, got %s", kindOf(v))}
	}
	return m, nil
}

func list(obj map[string]any, key, path string, required bool) ([]any, error) {
	v, ok, err := lookup(obj, key, path, required)
	if err != nil || !ok {
		return nil, err
	}
	items, isList := v.([]any)
	if !isList {
		return nil, &ShapeError{Path: path, Reason: fmt.Sprintf("expected array, got %s", kindOf(v))}
	}
	return items, nil
}

func stringList(obj map[string]any, key, path string, required bool) ([]string, error) {
	items, err := list(obj, key, path, required)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &ShapeError{Path: fmt.Sprintf("%s[%d]", path, i), Reason: fmt.Sprintf("expected string, got %s", kindOf(item))}
		}
		out = append(out, s)
	}
	return out, nil
}

func objectList(obj map[string]any, key, path string, required bool) ([]map[string]any, error) {
	items, err := list(obj, key, path, required)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, &ShapeError{Path: fmt.Sprintf("%s[%d]", path, i), Reason: fmt.Sprintf("expected object, got %s", kindOf(item))}
		}
		out = append(out, m)
	}
	return out, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
