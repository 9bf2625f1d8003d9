package sunat

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// CDRVerdict es el veredicto oficial extraído del ApplicationResponse que
// SUNAT devuelve dentro del zip del CDR.
type CDRVerdict struct {
	Code        string // ResponseCode: "0" = aceptado; 2000-3999 = rechazo
	Description string
	DocumentID  string // comprobante al que responde (ej. "F001-123")
}

// Accepted indica si el CDR acepta el comprobante: 0 = aceptado,
// 2000-3999 = rechazo, 4000+ = aceptado con observaciones.
func (v *CDRVerdict) Accepted() bool {
	n, err := strconv.Atoi(v.Code)
	if err != nil {
		return false
	}
	return n == 0 || n >= 4000
}

// ParseCDR abre el zip del CDR, localiza el XML ApplicationResponse
// (R-<name>.xml) y extrae código, descripción y comprobante referenciado.
func ParseCDR(zipBytes []byte) (*CDRVerdict, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return nil, fmt.Errorf("abrir zip CDR: %w", err)
	}
	var xmlData []byte
	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("abrir %s: %w", f.Name, err)
		}
		xmlData, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("leer %s: %w", f.Name, err)
		}
		break
	}
	if xmlData == nil {
		return nil, fmt.Errorf("el zip del CDR no contiene XML")
	}
	return parseApplicationResponse(xmlData)
}

func parseApplicationResponse(xmlData []byte) (*CDRVerdict, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlData); err != nil {
		return nil, fmt.Errorf("parsear ApplicationResponse: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "ApplicationResponse" {
		return nil, fmt.Errorf("el XML del CDR no es un ApplicationResponse")
	}

	// Se busca por nombre local: el CDR real usa prefijos cac:/cbc: y el
	// prefijo concreto no está garantizado.
	docResponse := findLocal(root, "DocumentResponse")
	if docResponse == nil {
		return nil, fmt.Errorf("ApplicationResponse sin DocumentResponse")
	}
	response := findLocal(docResponse, "Response")
	if response == nil {
		return nil, fmt.Errorf("DocumentResponse sin Response")
	}
	verdict := &CDRVerdict{}
	if el := findLocal(response, "ResponseCode"); el != nil {
		verdict.Code = strings.TrimSpace(el.Text())
	}
	if el := findLocal(response, "Description"); el != nil {
		verdict.Description = strings.TrimSpace(el.Text())
	}
	if ref := findLocal(docResponse, "DocumentReference"); ref != nil {
		if el := findLocal(ref, "ID"); el != nil {
			verdict.DocumentID = strings.TrimSpace(el.Text())
		}
	}
	if verdict.Code == "" {
		return nil, fmt.Errorf("ApplicationResponse sin ResponseCode")
	}
	return verdict, nil
}

// findLocal busca en profundidad el primer elemento con ese nombre local,
// ignorando el prefijo de namespace.
func findLocal(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return child
		}
		if found := findLocal(child, tag); found != nil {
			return found
		}
	}
	return nil
}
