package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/drive/v3"

	"github.com/archivist-labs/archivist/internal/core/domain"
	"github.com/archivist-labs/archivist/internal/core/ports/driven"
)

// MimeTypeDocx is the OOXML word-processing content type.
const MimeTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var _ driven.Extractor = (*DocxExtractor)(nil)

// DocxExtractor downloads DOCX files and pulls the paragraph text out
// of the OOXML document part.
type DocxExtractor struct {
	svc *drive.Service
}

// NewDocxExtractor creates a DOCX extractor.
func NewDocxExtractor(svc *drive.Service) *DocxExtractor {
	return &DocxExtractor{svc: svc}
}

// MIMEType returns the content type this extractor handles.
func (e *DocxExtractor) MIMEType() string {
	return MimeTypeDocx
}

// Extract downloads the file and parses its document part.
func (e *DocxExtractor) Extract(ctx context.Context, fileID string) (*driven.ExtractResult, error) {
	resp, err := e.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, classifyAPIError(fmt.Errorf("download file: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxContentSize))
	if err != nil {
		return nil, domain.Transient(fmt.Errorf("read file content: %w", err))
	}

	text, err := docxText(data)
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}
	return &driven.ExtractResult{Text: text}, nil
}

// docxText reads word/document.xml out of the ZIP container. A DOCX
// without that part yields empty text, not an error.
func docxText(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open archive: %w", domain.ErrInvalidInput)
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open document part: %w", domain.ErrInvalidInput)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document part: %w", domain.ErrInvalidInput)
		}

		return docxParagraphs(content), nil
	}
	return "", nil
}

// docxDocument mirrors the parts of word/document.xml we read: body
// paragraphs, their runs, and the text elements inside each run.
type docxDocument struct {
	Body struct {
		Paragraphs []struct {
			Runs []struct {
				Text []struct {
					Content string `xml:",chardata"`
				} `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"body"`
}

// docxParagraphs joins paragraph run text with blank lines so the
// paragraph boundaries survive for the chunker.
func docxParagraphs(content []byte) string {
	var doc docxDocument
	if err := xml.Unmarshal(content, &doc); err != nil {
		return ""
	}

	var b strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		for _, run := range para.Runs {
			for _, t := range run.Text {
				b.WriteString(t.Content)
			}
		}
	}
	return strings.TrimSpace(b.String())
}
