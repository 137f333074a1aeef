package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestRenderCSVPadsShortRows(t *testing.T) {
	out, err := Render(FormatCSV, Dataset{
		Headers: []string{"topic", "avg", "attempts"},
		Rows:    [][]string{{"Algebra", "55.00", "2"}, {"Unknown, misc"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "topic,avg,attempts\nAlgebra,55.00,2\n\"Unknown, misc\",,\n", string(out))
}

func TestRenderRejectsBadDatasets(t *testing.T) {
	_, err := RenderCSV(Dataset{})
	assert.Error(t, err)

	_, err = RenderPDF(Dataset{Headers: []string{"a"}, Rows: [][]string{{"1", "2"}}})
	assert.Error(t, err)

	_, err = Render(Format("xml"), Dataset{Headers: []string{"a"}})
	assert.Error(t, err)
}

func TestRenderPDFProducesDocument(t *testing.T) {
	rows := make([][]string, 0, 80)
	for i := 0; i < 80; i++ {
		rows = append(rows, []string{fmt.Sprintf("Topic %d", i), "42.00", "3"})
	}
	out, err := RenderPDF(Dataset{Title: "Weak topics", Headers: []string{"Topic", "Average", "Attempts"}, Rows: rows})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	empty, err := RenderPDF(Dataset{Headers: []string{"Topic"}})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, []byte("%PDF-")))
}
