package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// utf8BOM permite que las planillas abran el CSV con acentos correctos.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV serializa la tabla como CSV (cabecera + filas) precedido de BOM UTF-8.
func WriteCSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	writer := csv.NewWriter(&buf)
	if err := writer.Write(t.Columns); err != nil {
		return nil, err
	}
	for _, record := range t.Rows {
		cells := make([]string, len(record))
		for i, v := range record {
			cells[i] = escapeFormula(v)
		}
		if err := writer.Write(cells); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// escapeFormula antepone ' a las celdas que una planilla evaluaría como fórmula.
// Los números (p.ej. diferencias negativas) se dejan intactos.
func escapeFormula(v string) string {
	if v == "" || !strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return v
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return v
	}
	return "'" + v
}

type jsonExport struct {
	Success     bool      `json:"success"`
	Type        string    `json:"type"`
	GeneratedAt time.Time `json:"generated_at"`
	Total       int       `json:"total"`
	Rows        any       `json:"rows"`
}

// WriteJSON serializa los registros tipados del reporte dentro del sobre estándar.
func WriteJSON(reportType string, generatedAt time.Time, total int, rows any) ([]byte, error) {
	return json.Marshal(jsonExport{
		Success:     true,
		Type:        reportType,
		GeneratedAt: generatedAt,
		Total:       total,
		Rows:        rows,
	})
}
