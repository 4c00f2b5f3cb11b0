package services

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextMissingFile(t *testing.T) {
	_, err := NewPDFParserService().ExtractText(filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestExtractTextFromReaderRejectsNonPDF(t *testing.T) {
	_, err := NewPDFParserService().ExtractTextFromReader(strings.NewReader("plain text, not a pdf"))
	assert.Error(t, err)
}

func TestCleanText(t *testing.T) {
	in := "  Jane Doe  \n\n\n   Engineer\t\n \nBerlin  "
	assert.Equal(t, "Jane Doe\nEngineer\nBerlin", CleanText(in))
}
