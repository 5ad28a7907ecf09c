package llm

import (
	_ "embed"
	"fmt"
	"strings"
)

// Prompt names, also used in logs and metrics.
const (
	PromptAnalyze       = "analyze"
	PromptRewrite       = "rewrite"
	PromptCompare       = "compare"
	PromptRewriteForJob = "rewrite-for-job"
)

var (
	//go:embed prompts/analyze.txt
	analyzeTemplate string
	//go:embed prompts/rewrite.txt
	rewriteTemplate string
	//go:embed prompts/compare.txt
	compareTemplate string
	//go:embed prompts/rewrite_for_job.txt
	rewriteForJobTemplate string
	//go:embed prompts/resume_shape.txt
	resumeShapeTemplate string
)

// AnalyzePrompt asks for strengths and improvements written in language.
func AnalyzePrompt(resumeText, language string) Prompt {
	if strings.TrimSpace(language) == "" {
		language = "English"
	}
	return Prompt{
		Name:        PromptAnalyze,
		System:      strings.ReplaceAll(analyzeTemplate, "{{LANGUAGE}}", language),
		User:        "Analyze this resume:\n\n" + resumeText,
		Temperature: 0.7,
	}
}

// RewritePrompt asks for a general ATS rewrite.
func RewritePrompt(resumeText string) Prompt {
	return Prompt{
		Name:        PromptRewrite,
		System:      rewriteTemplate + "\n" + resumeShape("Professional summary paragraph", `"Skill 1", "Skill 2"`),
		User:        "Rewrite this resume professionally:\n\n" + resumeText,
		Temperature: 0.7,
	}
}

// ComparePrompt asks for the skill gap between a résumé and a job description.
func ComparePrompt(resumeText, jobDescription string) Prompt {
	return Prompt{
		Name:        PromptCompare,
		System:      compareTemplate,
		User:        fmt.Sprintf("Job Description:\n%s\n\nResume:\n%s", jobDescription, resumeText),
		Temperature: 0.5,
	}
}

// RewriteForJobPrompt asks for a rewrite tailored to the job. confirmedSkills
// are the applicant's added skills, already formatted with their experience.
func RewriteForJobPrompt(resumeText, jobDescription string, confirmedSkills []string) Prompt {
	confirmed := strings.Join(confirmedSkills, ", ")
	if confirmed == "" {
		confirmed = "None"
	}
	system := strings.ReplaceAll(rewriteForJobTemplate, "{{CONFIRMED_SKILLS}}", confirmed)
	return Prompt{
		Name:        PromptRewriteForJob,
		System:      system + "\n" + resumeShape("Professional summary paragraph tailored to the job", `"Most Relevant Skill", "Second Most Relevant", ...`),
		User:        fmt.Sprintf("Job Description:\n%s\n\nOriginal Resume:\n%s", jobDescription, resumeText),
		Temperature: 0.7,
	}
}

func resumeShape(summaryHint, skillsHint string) string {
	return strings.NewReplacer(
		"{{SUMMARY_HINT}}", summaryHint,
		"{{SKILLS_HINT}}", skillsHint,
	).Replace(resumeShapeTemplate)
}
