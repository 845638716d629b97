package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title: "Informe de acompañamiento",
		Sections: []Section{
			{Title: "Resumen", Headers: []string{"Indicador", "Valor"}, Rows: [][]string{{"Reportes", "12"}}},
			{Title: "Por curso", Headers: []string{"Curso", "Reportes"}, Rows: [][]string{{"8A", "7", "extra"}, {"9B"}}},
		},
	}
}

func TestCSVExporterRendersSections(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, utf8BOM))

	assert.Equal(t, "Resumen\nIndicador,Valor\nReportes,12\n\nPor curso\nCurso,Reportes\n8A,7\n9B,\n", string(out[len(utf8BOM):]))
}

func TestExportersRejectEmptyDatasets(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)

	headerless := Dataset{Sections: []Section{{Title: "Resumen"}}}
	_, err = NewCSVExporter().Render(headerless)
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(headerless)
	assert.Error(t, err)
}

func TestPDFExporterRenders(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
