// Package i18n resolves client-visible messages for the caller's language.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"
)

// Message keys shared by handlers.
const (
	KeyFileRequired           = "file_required"
	KeyInvalidFileType        = "invalid_file_type"
	KeyFileTooLarge           = "file_too_large"
	KeyExtractionFailed       = "extraction_failed"
	KeyInsufficientText       = "insufficient_text"
	KeyInvalidAction          = "invalid_action"
	KeyJobDescriptionRequired = "job_description_required"
	KeyInvalidSkillAnswers    = "invalid_skill_answers"
	KeyRateLimited            = "rate_limited"
	KeyAIFailed               = "ai_failed"
	KeyTimeout                = "timeout"
	KeyInternal               = "internal"
	KeyResumeDataRequired     = "resume_data_required"
	KeyMissingField           = "missing_field"
	KeyInvalidRequest         = "invalid_request"
)

var supported = []language.Tag{language.English, language.Arabic}

var matcher = language.NewMatcher(supported)

type entry struct {
	en string
	ar string
}

var catalog = map[string]entry{
	KeyFileRequired:           {en: "No file provided", ar: "لم يتم تقديم أي ملف"},
	KeyInvalidFileType:        {en: "Only PDF files are allowed", ar: "يُسمح بملفات PDF فقط"},
	KeyFileTooLarge:           {en: "File size must be less than 10MB", ar: "يجب أن يكون حجم الملف أقل من 10 ميجابايت"},
	KeyExtractionFailed:       {en: "Failed to read the PDF file", ar: "تعذرت قراءة ملف PDF"},
	KeyInsufficientText:       {en: "Could not extract enough text from the PDF", ar: "تعذر استخراج نص كافٍ من ملف PDF"},
	KeyInvalidAction:          {en: "Invalid action", ar: "إجراء غير صالح"},
	KeyJobDescriptionRequired: {en: "Job description is required", ar: "الوصف الوظيفي مطلوب"},
	KeyInvalidSkillAnswers:    {en: "Skill answers are malformed", ar: "إجابات المهارات غير صالحة"},
	KeyRateLimited:            {en: "You have reached the usage limit, please try again later", ar: "لقد وصلت إلى حد الاستخدام، يرجى المحاولة لاحقاً"},
	KeyAIFailed:               {en: "Failed to process resume, please try again", ar: "فشلت معالجة السيرة الذاتية، يرجى المحاولة مرة أخرى"},
	KeyTimeout:                {en: "The request took too long, please try again", ar: "استغرق الطلب وقتاً طويلاً، يرجى المحاولة مرة أخرى"},
	KeyInternal:               {en: "Failed to process request", ar: "فشلت معالجة الطلب"},
	KeyResumeDataRequired:     {en: "No resume data provided", ar: "لم يتم تقديم بيانات السيرة الذاتية"},
	KeyMissingField:           {en: "Missing required field: %s", ar: "حقل مطلوب مفقود: %s"},
	KeyInvalidRequest:         {en: "Invalid request", ar: "طلب غير صالح"},
}

func init() {
	for key, e := range catalog {
		_ = message.SetString(language.English, key, e.en)
		_ = message.SetString(language.Arabic, key, e.ar)
	}
}

// Match picks the supported language for an Accept-Language header value.
// Unparseable or empty headers resolve to English.
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return language.English
	}
	return supported[index]
}

// Message renders the message for key in the given language.
func Message(tag language.Tag, key string, args ...any) string {
	return message.NewPrinter(tag).Sprintf(key, args...)
}

// LanguageName returns the English name of tag, such as "Arabic".
func LanguageName(tag language.Tag) string {
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return "English"
}
