package render

import (
	"bytes"
	"html/template"
)

var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.FullName}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; color: #333333; max-width: 800px; margin: 40px auto; padding: 0 24px; font-size: 14px; line-height: 1.5; }
header { text-align: center; border-bottom: 2px solid #2563eb; padding-bottom: 16px; margin-bottom: 20px; }
h1 { font-size: 26px; color: #111111; margin: 0 0 4px; }
.title { font-size: 15px; color: #444444; margin: 0 0 8px; }
.contact { font-size: 12px; color: #555555; margin: 0; }
h2 { font-size: 14px; text-transform: uppercase; color: #1f2937; border-bottom: 1px solid #e5e7eb; padding-bottom: 4px; margin: 20px 0 10px; }
.item { margin-bottom: 12px; }
.item-head { display: flex; justify-content: space-between; }
.role { font-weight: bold; color: #000000; margin: 0; }
.meta { color: #444444; margin: 0; }
.when { color: #666666; font-style: italic; white-space: nowrap; padding-left: 12px; }
ul { margin: 6px 0 0 18px; padding: 0; }
</style>
</head>
<body dir="auto">
<header>
<h1>{{.FullName}}</h1>
{{- if .Title}}
<p class="title">{{.Title}}</p>
{{- end}}
{{- if .Contact}}
<p class="contact">{{.Contact}}</p>
{{- end}}
</header>
{{- if .Summary}}
<section>
<h2>Professional Summary</h2>
<p>{{.Summary}}</p>
</section>
{{- end}}
{{- if .Experience}}
<section>
<h2>Professional Experience</h2>
{{- range .Experience}}
<div class="item">
<div class="item-head">
<div>
{{- if .Position}}<p class="role">{{.Position}}</p>{{end}}
{{- if .Company}}<p class="meta">{{.Company}}</p>{{end}}
</div>
{{- if .Duration}}<span class="when">{{.Duration}}</span>{{end}}
</div>
{{- if .Achievements}}
<ul>
{{- range .Achievements}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
</div>
{{- end}}
</section>
{{- end}}
{{- if .Education}}
<section>
<h2>Education</h2>
{{- range .Education}}
<div class="item">
<div class="item-head">
<div>
{{- if .Degree}}<p class="role">{{.Degree}}</p>{{end}}
{{- if .Institution}}<p class="meta">{{.Institution}}</p>{{end}}
</div>
{{- if .Year}}<span class="when">{{.Year}}</span>{{end}}
</div>
</div>
{{- end}}
</section>
{{- end}}
{{- if .Skills}}
<section>
<h2>Skills</h2>
<p>{{.SkillsLine}}</p>
</section>
{{- end}}
</body>
</html>
`))

// RenderHTML writes the view as a standalone HTML page.
func RenderHTML(v View) ([]byte, error) {
	var buf bytes.Buffer
	if err := previewTemplate.Execute(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
