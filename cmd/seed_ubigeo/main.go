// seed_ubigeo genera un script SQL para poblar el catálogo de ubigeos (INEI)
// a partir del TXT oficial UBIGEO.txt (código|departamento|provincia|distrito,
// codificado en ISO-8859-1).
//
// Uso: go run ./cmd/seed_ubigeo [ruta/UBIGEO.txt]
// Por defecto busca UBIGEO.txt en el directorio actual.
// Escribe: migrations/002_seed_ubigeo.sql
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type ubigeo struct {
	code       string
	department string
	province   string
	district   string
}

func main() {
	txtPath := "UBIGEO.txt"
	if len(os.Args) > 1 {
		txtPath = os.Args[1]
	}
	f, err := os.Open(txtPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir TXT: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var rows []ubigeo
	sc := bufio.NewScanner(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 4 {
			continue
		}
		code := strings.TrimSpace(parts[0])
		if len(code) != 6 {
			continue
		}
		rows = append(rows, ubigeo{
			code:       code,
			department: strings.TrimSpace(parts[1]),
			province:   strings.TrimSpace(parts[2]),
			district:   strings.TrimSpace(parts[3]),
		})
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Leer TXT: %v\n", err)
		os.Exit(1)
	}

	// Orden por código para salida estable
	sort.Slice(rows, func(i, j int) bool { return rows[i].code < rows[j].code })

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "migrations", "002_seed_ubigeo.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Catálogo de ubigeos Perú (código INEI)\n")
	out.WriteString("-- Generado desde UBIGEO.txt (INEI)\n\n")
	out.WriteString("INSERT INTO ubigeos (code, department, province, district) VALUES\n")
	for i, u := range rows {
		sep := ","
		if i == len(rows)-1 {
			sep = ""
		}
		fmt.Fprintf(out, "  ('%s', '%s', '%s', '%s')%s\n",
			u.code, escapeSQL(u.department), escapeSQL(u.province), escapeSQL(u.district), sep)
	}
	out.WriteString("ON CONFLICT (code) DO UPDATE SET\n")
	out.WriteString("  department = EXCLUDED.department,\n")
	out.WriteString("  province   = EXCLUDED.province,\n")
	out.WriteString("  district   = EXCLUDED.district;\n")

	fmt.Printf("Generado %s: %d ubigeos\n", outPath, len(rows))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
