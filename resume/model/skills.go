package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SkillAnswer is the applicant's reply for one missing skill.
type SkillAnswer struct {
	Skill             string `json:"skill"`
	HasSkill          bool   `json:"hasSkill"`
	YearsOfExperience *int   `json:"yearsOfExperience,omitempty"`
}

// Yes builds an answer confirming the skill with years of experience.
func Yes(skill string, years int) SkillAnswer {
	return SkillAnswer{Skill: skill, HasSkill: true, YearsOfExperience: &years}
}

// No builds an answer declining the skill.
func No(skill string) SkillAnswer {
	return SkillAnswer{Skill: skill}
}

// ParseSkillAnswers decodes the JSON-encoded skillAnswers form field.
func ParseSkillAnswers(raw string) ([]SkillAnswer, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("skill answers are required")
	}
	var answers []SkillAnswer
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		return nil, fmt.Errorf("decode skill answers: %w", err)
	}
	if answers == nil {
		return nil, errors.New("skill answers must be an array")
	}
	for i, a := range answers {
		if strings.TrimSpace(a.Skill) == "" {
			return nil, fmt.Errorf("skill answer %d: skill is empty", i)
		}
		if a.YearsOfExperience != nil && *a.YearsOfExperience < 0 {
			return nil, fmt.Errorf("skill answer %d: negative years of experience", i)
		}
	}
	return answers, nil
}

// ConfirmedSkills lists the skills the applicant has as "skill (N years experience)".
// Declined skills contribute nothing.
func ConfirmedSkills(answers []SkillAnswer) []string {
	out := make([]string, 0, len(answers))
	for _, a := range answers {
		if !a.HasSkill {
			continue
		}
		skill := strings.TrimSpace(a.Skill)
		if a.YearsOfExperience == nil {
			out = append(out, skill)
			continue
		}
		out = append(out, fmt.Sprintf("%s (%d years experience)", skill, *a.YearsOfExperience))
	}
	return out
}
