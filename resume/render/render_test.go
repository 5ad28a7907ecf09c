package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"html"
	"io"
	"strings"
	"testing"

	"resume-improver/resume/model"
)

func sampleResume() model.ResumeData {
	return model.ResumeData{
		FullName: "Layla Hassan",
		Title:    "Backend Engineer",
		Summary:  "Engineer building payment & billing systems.",
		Experience: []model.Experience{
			{
				Company:      "Acme Pay",
				Position:     "Senior Engineer",
				Duration:     "2020 - 2024",
				Achievements: []string{"Cut settlement latency by 40%", "Led a team of 4"},
			},
		},
		Education: []model.Education{
			{Institution: "Cairo University", Degree: "BSc Computer Science", Year: "2016"},
		},
		Skills: []string{"Go", "PostgreSQL", "Kubernetes"},
		Contact: model.Contact{
			Email:    "layla@example.com",
			Phone:    "020 100 000 0000",
			Location: "Cairo",
		},
	}
}

func TestBuildViewJoinsContactAndDropsPlaceholders(t *testing.T) {
	d := sampleResume()
	d.Contact.Phone = "Not provided"
	d.Education[0].Year = "Graduation year not provided"
	d.Experience[0].Achievements = append(d.Experience[0].Achievements, "N/A")
	d.Skills = append(d.Skills, "unknown")

	v := BuildView(d)
	if v.Contact != "layla@example.com  |  Cairo" {
		t.Fatalf("unexpected contact %q", v.Contact)
	}
	if v.Education[0].Year != "" {
		t.Fatalf("expected year placeholder removed, got %q", v.Education[0].Year)
	}
	if len(v.Experience[0].Achievements) != 2 {
		t.Fatalf("expected placeholder achievement dropped, got %v", v.Experience[0].Achievements)
	}
	if v.SkillsLine() != "Go  •  PostgreSQL  •  Kubernetes" {
		t.Fatalf("unexpected skills line %q", v.SkillsLine())
	}
}

func TestLinesSkipEmptySections(t *testing.T) {
	v := BuildView(model.ResumeData{FullName: "Omar", Summary: "None"})
	lines := v.Lines()
	if len(lines) != 1 || lines[0].Kind != LineName || lines[0].Text != "Omar" {
		t.Fatalf("expected only the name line, got %+v", lines)
	}
}

func TestRenderersShowTheSameVisibleFields(t *testing.T) {
	v := BuildView(sampleResume())

	docx, err := RenderDOCX(v)
	if err != nil {
		t.Fatalf("RenderDOCX: %v", err)
	}
	paragraphs := docxParagraphs(t, docx)

	lines := v.Lines()
	if len(paragraphs) != len(lines) {
		t.Fatalf("expected %d paragraphs, got %d: %q", len(lines), len(paragraphs), paragraphs)
	}
	for i, line := range lines {
		want := line.Text
		if line.Kind == LineBullet {
			want = bulletPrefix + line.Text
		}
		if paragraphs[i] != want {
			t.Fatalf("paragraph %d = %q, want %q", i, paragraphs[i], want)
		}
	}

	page, err := RenderHTML(v)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	for _, line := range lines {
		if !bytes.Contains(page, []byte(html.EscapeString(line.Text))) {
			t.Fatalf("preview missing %q", line.Text)
		}
	}
}

func TestRenderersOmitPlaceholders(t *testing.T) {
	d := sampleResume()
	d.Contact.Email = "Not Available"
	d.Experience[0].Duration = "N/A"

	v := BuildView(d)
	docx, err := RenderDOCX(v)
	if err != nil {
		t.Fatalf("RenderDOCX: %v", err)
	}
	doc := strings.Join(docxParagraphs(t, docx), "\n")
	page, err := RenderHTML(v)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	for _, banned := range []string{"Not Available", "N/A"} {
		if strings.Contains(doc, banned) {
			t.Fatalf("docx contains placeholder %q", banned)
		}
		if bytes.Contains(page, []byte(banned)) {
			t.Fatalf("preview contains placeholder %q", banned)
		}
	}
}

func TestRenderHTMLEscapes(t *testing.T) {
	v := BuildView(model.ResumeData{FullName: "<script>alert(1)</script>"})
	page, err := RenderHTML(v)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if bytes.Contains(page, []byte("<script>")) {
		t.Fatalf("expected name to be escaped")
	}
}

func TestRenderDOCXRequiresName(t *testing.T) {
	if _, err := RenderDOCX(View{}); err == nil {
		t.Fatalf("expected error without a name")
	}
}

func TestRenderDOCXMarksRightToLeftText(t *testing.T) {
	docx, err := RenderDOCX(BuildView(model.ResumeData{FullName: "ليلى حسن"}))
	if err != nil {
		t.Fatalf("RenderDOCX: %v", err)
	}
	documentXML := readDocumentXML(t, docx)
	if !strings.Contains(documentXML, "<w:bidi/>") || !strings.Contains(documentXML, "<w:rtl/>") {
		t.Fatalf("expected bidi markers for arabic text")
	}
}

func TestRenderDOCXIsDeterministic(t *testing.T) {
	v := BuildView(sampleResume())
	first, err := RenderDOCX(v)
	if err != nil {
		t.Fatalf("RenderDOCX: %v", err)
	}
	second, err := RenderDOCX(v)
	if err != nil {
		t.Fatalf("RenderDOCX: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("expected equal output for equal views")
	}
}

func TestValidateDocumentXML(t *testing.T) {
	tests := []struct {
		name    string
		xml     string
		wantErr bool
	}{
		{name: "valid", xml: `<w:document xmlns:w="` + wmlNamespace + `"><w:body/></w:document>`},
		{name: "foreign element", xml: `<w:document xmlns:w="` + wmlNamespace + `"><x/></w:document>`, wantErr: true},
		{name: "wrong root", xml: `<w:body xmlns:w="` + wmlNamespace + `"></w:body>`, wantErr: true},
		{name: "malformed", xml: `<w:document xmlns:w="` + wmlNamespace + `"><w:body>`, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateDocumentXML(tc.xml)
			if (err != nil) != tc.wantErr {
				t.Fatalf("validateDocumentXML err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "spaces", in: "Layla  Hassan", want: "Layla_Hassan_Resume.docx"},
		{name: "unsafe chars", in: `A/B "C"`, want: "AB_C_Resume.docx"},
		{name: "placeholder", in: "Not provided", want: "Resume.docx"},
		{name: "empty", in: " ", want: "Resume.docx"},
		{name: "contains placeholder word", in: "Adaeze Ononenyi", want: "Adaeze_Ononenyi_Resume.docx"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FileName(tc.in, ".docx"); got != tc.want {
				t.Fatalf("FileName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func readDocumentXML(t *testing.T, docx []byte) string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	if err != nil {
		t.Fatalf("open docx: %v", err)
	}
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("open document.xml: %v", err)
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read document.xml: %v", err)
		}
		return string(content)
	}
	t.Fatalf("document.xml not found")
	return ""
}

func docxParagraphs(t *testing.T, docx []byte) []string {
	t.Helper()
	decoder := xml.NewDecoder(strings.NewReader(readDocumentXML(t, docx)))
	var paragraphs []string
	var current strings.Builder
	inText := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("decode document.xml: %v", err)
		}
		switch tok := token.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "p":
				current.Reset()
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch tok.Name.Local {
			case "p":
				paragraphs = append(paragraphs, current.String())
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(tok)
			}
		}
	}
	return paragraphs
}
