package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archivist-labs/archivist/internal/core/domain"
)

func buildDocx(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const docxDocumentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph in two runs.</w:t></w:r></w:p>
    <w:p></w:p>
  </w:body>
</w:document>`

func TestDocxText(t *testing.T) {
	data := buildDocx(t, map[string]string{
		"word/document.xml": docxDocumentXML,
		"docProps/core.xml": "<coreProperties/>",
	})

	text, err := docxText(data)
	require.NoError(t, err)

	// Paragraphs come back blank-line separated; run boundaries within a
	// paragraph leave no trace.
	assert.Equal(t, "First paragraph.\n\nSecond paragraph in two runs.", text)
}

func TestDocxText_MissingDocumentPart(t *testing.T) {
	data := buildDocx(t, map[string]string{"docProps/core.xml": "<coreProperties/>"})

	text, err := docxText(data)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestDocxText_NotAnArchive(t *testing.T) {
	_, err := docxText([]byte("plain text, not a zip"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocxExtractor_MIMEType(t *testing.T) {
	e := NewDocxExtractor(nil)
	assert.Equal(t, MimeTypeDocx, e.MIMEType())
}
