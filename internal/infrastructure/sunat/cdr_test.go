package sunat

import (
	"archive/zip"
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCDRZip(t *testing.T, code, description, docID string) []byte {
	t.Helper()
	xml := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<ar:ApplicationResponse xmlns:ar="urn:oasis:names:specification:ubl:schema:xsd:ApplicationResponse-2"
    xmlns:cac="urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
    xmlns:cbc="urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2">
  <cbc:ID>%s</cbc:ID>
  <cac:DocumentResponse>
    <cac:Response>
      <cbc:ResponseCode>%s</cbc:ResponseCode>
      <cbc:Description>%s</cbc:Description>
    </cac:Response>
    <cac:DocumentReference>
      <cbc:ID>%s</cbc:ID>
    </cac:DocumentReference>
  </cac:DocumentResponse>
</ar:ApplicationResponse>`, docID, code, description, docID)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("R-" + docID + ".xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(xml))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParseCDR_Aceptado(t *testing.T) {
	data := buildCDRZip(t, "0", "La Factura numero F001-123, ha sido aceptada", "F001-123")

	verdict, err := ParseCDR(data)
	require.NoError(t, err)
	assert.Equal(t, "0", verdict.Code)
	assert.Equal(t, "F001-123", verdict.DocumentID)
	assert.True(t, verdict.Accepted())
}

func TestParseCDR_Rechazado(t *testing.T) {
	data := buildCDRZip(t, "2324", "El XML no contiene el tag o no existe informacion del numero de RUC", "F001-124")

	verdict, err := ParseCDR(data)
	require.NoError(t, err)
	assert.Equal(t, "2324", verdict.Code)
	assert.False(t, verdict.Accepted())
	assert.Contains(t, verdict.Description, "RUC")
}

func TestParseCDR_AceptadoConObservaciones(t *testing.T) {
	data := buildCDRZip(t, "4000", "Aceptada con observaciones", "B001-55")

	verdict, err := ParseCDR(data)
	require.NoError(t, err)
	assert.True(t, verdict.Accepted())
}

func TestParseCDR_ZipSinXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("readme.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("nada"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ParseCDR(buf.Bytes())
	assert.Error(t, err)
}

func TestParseCDR_NoEsZip(t *testing.T) {
	_, err := ParseCDR([]byte("<xml>no soy un zip</xml>"))
	assert.Error(t, err)
}

func TestParseCDR_SinResponseCode(t *testing.T) {
	xml := `<?xml version="1.0"?><ApplicationResponse><DocumentResponse><Response></Response></DocumentResponse></ApplicationResponse>`
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("R-X.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(xml))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ParseCDR(buf.Bytes())
	assert.Error(t, err)
}
