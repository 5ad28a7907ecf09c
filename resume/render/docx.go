package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	wmlNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

	// MimeDOCX is the content type of RenderDOCX output.
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	bulletPrefix = "• "
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// Zip entries carry a fixed timestamp so equal views give equal bytes.
var zipModified = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// RenderDOCX writes the view as a WordprocessingML package.
func RenderDOCX(v View) ([]byte, error) {
	if v.FullName == "" {
		return nil, errors.New("full name is required")
	}

	documentXML := renderDocumentXML(v.Lines())
	if err := validateDocumentXML(documentXML); err != nil {
		return nil, err
	}

	var output bytes.Buffer
	writer := zip.NewWriter(&output)
	entries := []struct {
		name    string
		content string
	}{
		{name: "[Content_Types].xml", content: contentTypesXML},
		{name: "_rels/.rels", content: packageRelsXML},
		{name: "word/document.xml", content: documentXML},
	}
	for _, entry := range entries {
		if err := writeZipFile(writer, entry.name, []byte(entry.content)); err != nil {
			_ = writer.Close()
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return output.Bytes(), nil
}

func writeZipFile(writer *zip.Writer, name string, content []byte) error {
	header := &zip.FileHeader{
		Name:     normalizeZipName(name),
		Method:   zip.Deflate,
		Modified: zipModified,
	}
	dst, err := writer.CreateHeader(header)
	if err != nil {
		return err
	}
	if _, err := dst.Write(content); err != nil {
		return err
	}
	return nil
}

func normalizeZipName(name string) string {
	return strings.ReplaceAll(name, "\\", "/")
}

func renderDocumentXML(lines []Line) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:document xmlns:w="` + wmlNamespace + `"><w:body>`)
	for _, line := range lines {
		writeParagraph(&b, line)
	}
	b.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>`)
	b.WriteString(`<w:pgMar w:top="1134" w:right="1134" w:bottom="1134" w:left="1134" w:header="708" w:footer="708" w:gutter="0"/>`)
	b.WriteString(`</w:sectPr></w:body></w:document>`)
	return b.String()
}

func writeParagraph(b *strings.Builder, line Line) {
	style := StyleMap[line.Kind]
	rtl := isRightToLeft(line.Text)

	b.WriteString("<w:p><w:pPr>")
	if rtl {
		b.WriteString("<w:bidi/>")
	}
	switch line.Kind {
	case LineHeading:
		b.WriteString(`<w:pBdr><w:bottom w:val="single" w:sz="6" w:space="1" w:color="` + HeadingColor + `"/></w:pBdr>`)
		b.WriteString(`<w:spacing w:before="240" w:after="80"/>`)
	case LineBullet:
		b.WriteString(`<w:ind w:left="360" w:hanging="200"/>`)
	case LineName, LineContact:
		b.WriteString(`<w:jc w:val="center"/>`)
	}
	b.WriteString("</w:pPr>")

	if line.Kind == LineBullet {
		writeRun(b, style, rtl, bulletPrefix)
	}
	writeRun(b, style, rtl, line.Text)
	b.WriteString("</w:p>")
}

func writeRun(b *strings.Builder, style RunStyle, rtl bool, text string) {
	b.WriteString("<w:r><w:rPr>")
	if style.Bold {
		b.WriteString("<w:b/>")
	}
	if style.Italic {
		b.WriteString("<w:i/>")
	}
	if style.Color != "" {
		b.WriteString(`<w:color w:val="` + style.Color + `"/>`)
	}
	if style.Size > 0 {
		size := strconv.Itoa(style.Size)
		b.WriteString(`<w:sz w:val="` + size + `"/><w:szCs w:val="` + size + `"/>`)
	}
	if rtl {
		b.WriteString("<w:rtl/>")
	}
	b.WriteString(`</w:rPr><w:t xml:space="preserve">`)
	var escaped bytes.Buffer
	_ = xml.EscapeText(&escaped, []byte(text))
	b.Write(escaped.Bytes())
	b.WriteString("</w:t></w:r>")
}

func isRightToLeft(text string) bool {
	for _, r := range text {
		if unicode.In(r, unicode.Arabic, unicode.Hebrew) {
			return true
		}
	}
	return false
}

// validateDocumentXML checks the document parses and every element lives in
// the WordprocessingML namespace.
func validateDocumentXML(xmlText string) error {
	decoder := xml.NewDecoder(strings.NewReader(xmlText))
	depth := 0
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("document.xml parse failed: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Space != wmlNamespace {
				return fmt.Errorf("document.xml element %q outside the wordprocessingml namespace", t.Name.Local)
			}
			if depth == 0 && t.Name.Local != "document" {
				return fmt.Errorf("document.xml root is %q, want document", t.Name.Local)
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	if depth != 0 {
		return errors.New("document.xml is not balanced")
	}
	return nil
}
