package docx

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// writeTestDOCX writes a minimal DOCX archive and returns its path.
// An empty documentXML leaves word/document.xml out.
func writeTestDOCX(t *testing.T, documentXML string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	contentTypes, err := w.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))
	require.NoError(t, err)

	if documentXML != "" {
		doc, err := w.Create(documentPart)
		require.NoError(t, err)
		_, err = doc.Write([]byte(documentXML))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func wordDocument(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>` + body + `</w:body>
</w:document>`
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Normaliser)(nil)
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{"docx"}, New().Extensions())
}

func TestExtract_Paragraphs(t *testing.T) {
	path := writeTestDOCX(t, wordDocument(
		`<w:p><w:r><w:t>Hello</w:t></w:r><w:r><w:t xml:space="preserve"> World</w:t></w:r></w:p>`+
			`<w:p></w:p>`+
			`<w:p><w:r><w:t>Second</w:t><w:tab/><w:t>tabbed</w:t></w:r></w:p>`,
	))

	text, err := New().Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "Hello World\nSecond\ttabbed", text)
}

func TestExtract_Tables(t *testing.T) {
	path := writeTestDOCX(t, wordDocument(
		`<w:p><w:r><w:t>Before</w:t></w:r></w:p>`+
			`<w:tbl><w:tr>`+
			`<w:tc><w:p><w:r><w:t>Cell A</w:t></w:r></w:p></w:tc>`+
			`<w:tc><w:p><w:r><w:t>Cell B</w:t></w:r></w:p></w:tc>`+
			`</w:tr></w:tbl>`+
			`<w:p><w:r><w:t>After</w:t></w:r></w:p>`,
	))

	text, err := New().Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "Before\nCell A\nCell B\nAfter", text)
}

func TestExtract_LineBreak(t *testing.T) {
	path := writeTestDOCX(t, wordDocument(`<w:p><w:r><w:t>one</w:t><w:br/><w:t>two</w:t></w:r></w:p>`))

	text, err := New().Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", text)
}

func TestExtract_IgnoresNonTextElements(t *testing.T) {
	path := writeTestDOCX(t, wordDocument(
		`<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:rPr><w:b/></w:rPr><w:t>Title</w:t></w:r></w:p>`,
	))

	text, err := New().Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "Title", text)
}

func TestExtract_EmptyDocument(t *testing.T) {
	path := writeTestDOCX(t, wordDocument(`<w:p></w:p>`))

	text, err := New().Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtract_Errors(t *testing.T) {
	dir := t.TempDir()
	notZip := filepath.Join(dir, "fake.docx")
	require.NoError(t, os.WriteFile(notZip, []byte("not a zip"), 0600))

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.docx")},
		{"not a zip archive", notZip},
		{"no document part", writeTestDOCX(t, "")},
		{"malformed xml", writeTestDOCX(t, "<w:document><w:body><w:p>")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Extract(context.Background(), tt.path)
			assert.ErrorIs(t, err, domain.ErrExtraction)
		})
	}
}

func TestParseDocumentXML_LargeDocument(t *testing.T) {
	var body strings.Builder
	for i := 0; i < 500; i++ {
		body.WriteString(`<w:p><w:r><w:t>line</w:t></w:r></w:p>`)
	}

	text, err := parseDocumentXML(strings.NewReader(wordDocument(body.String())))

	require.NoError(t, err)
	assert.Len(t, strings.Split(text, "\n"), 500)
}
