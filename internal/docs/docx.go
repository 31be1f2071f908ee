package docs

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// loadDOCX extracts paragraph text from a Word document. A .docx file is a
// zip archive whose word/document.xml holds the text runs.
func loadDOCX(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx %s: %w", path, err)
	}
	defer archive.Close()

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml in %s: %w", path, err)
		}
		defer rc.Close()
		return extractDOCXText(rc)
	}

	return "", fmt.Errorf("%w: %s has no word/document.xml", ErrUnsupportedFormat, path)
}

// extractDOCXText walks the XML token stream, collecting text runs (<w:t>)
// and emitting a newline at each paragraph end (</w:p>).
func extractDOCXText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var sb strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
			if t.Name.Local == "p" {
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}
