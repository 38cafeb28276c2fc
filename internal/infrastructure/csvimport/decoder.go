// Package csvimport lee planillas de ítems (CSV exportado desde Excel o LibreOffice) para la importación masiva.
package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
	"github.com/jhoicas/Inventario-conteo/internal/application/usecase"
	"github.com/jhoicas/Inventario-conteo/internal/domain"
)

var _ usecase.ItemRowDecoder = (*Decoder)(nil)

// Columnas reconocidas y sus alias en español/portugués.
var headerAliases = map[string]string{
	"barcode":          "barcode",
	"codigo_barras":    "barcode",
	"codigo":           "barcode",
	"codigo_de_barras": "barcode",
	"name":             "name",
	"nombre":           "name",
	"nome":             "name",
	"description":      "description",
	"descripcion":      "description",
	"category":         "category",
	"categoria":        "category",
	"quantity":         "quantity",
	"cantidad":         "quantity",
	"quantidade":       "quantity",
	"min_quantity":     "min_quantity",
	"cantidad_minima":  "min_quantity",
	"minimo":           "min_quantity",
	"unit_price":       "unit_price",
	"precio":           "unit_price",
	"precio_unitario":  "unit_price",
	"preco":            "unit_price",
	"location":         "location",
	"ubicacion":        "location",
	"supplier":         "supplier",
	"proveedor":        "supplier",
	"fornecedor":       "supplier",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decoder convierte CSV (coma o punto y coma, UTF-8 o Windows-1252) en filas de ítems.
type Decoder struct {
	// MaxRows tope de filas de datos; 0 = sin tope.
	MaxRows int
}

// NewDecoder construye el decodificador con el tope de filas indicado.
func NewDecoder(maxRows int) *Decoder {
	return &Decoder{MaxRows: maxRows}
}

// Decode lee todo el archivo. Devuelve error solo si el archivo en sí es ilegible
// (sin cabecera, sin columnas obligatorias, CSV mal formado); los valores inválidos
// de una fila se informan como ImportError con su número de línea.
func (d *Decoder) Decode(r io.Reader) ([]dto.ImportItemRow, []dto.ImportError, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("leer archivo: %w", err)
	}
	raw, err = toUTF8(raw)
	if err != nil {
		return nil, nil, err
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = detectDelimiter(raw)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: el archivo está vacío", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: cabecera ilegible: %v", domain.ErrInvalidInput, err)
	}
	columns, err := mapHeader(header)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]dto.ImportItemRow, 0)
	rowErrs := make([]dto.ImportError, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}
		if d.MaxRows > 0 && len(rows)+len(rowErrs) >= d.MaxRows {
			return nil, nil, fmt.Errorf("%w: el archivo supera %d filas", domain.ErrInvalidInput, d.MaxRows)
		}
		row, err := parseRow(line, record, columns)
		if err != nil {
			rowErrs = append(rowErrs, dto.ImportError{Line: line, Barcode: row.Barcode, Message: err.Error()})
			continue
		}
		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}

// toUTF8 quita el BOM y, si el contenido no es UTF-8 válido, lo interpreta como Windows-1252.
func toUTF8(raw []byte) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return raw, nil
	}
	out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
	if err != nil {
		return nil, fmt.Errorf("%w: codificación no soportada: %v", domain.ErrInvalidInput, err)
	}
	return out, nil
}

// detectDelimiter elige ';' cuando la primera línea tiene más puntos y coma que comas.
func detectDelimiter(raw []byte) rune {
	first := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		first = raw[:i]
	}
	if bytes.Count(first, []byte{';'}) > bytes.Count(first, []byte{','}) {
		return ';'
	}
	return ','
}

func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if canonical, ok := headerAliases[key]; ok {
			if _, dup := columns[canonical]; !dup {
				columns[canonical] = i
			}
		}
	}
	for _, required := range []string{"barcode", "name"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: falta la columna %q en la cabecera", domain.ErrInvalidInput, required)
		}
	}
	return columns, nil
}

var accentReplacer = strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ç", "c", "ã", "a", "õ", "o", "ê", "e")

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = accentReplacer.Replace(h)
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

func parseRow(line int, record []string, columns map[string]int) (dto.ImportItemRow, error) {
	get := func(col string) string {
		i, ok := columns[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	row := dto.ImportItemRow{
		Line:        line,
		Barcode:     get("barcode"),
		Name:        get("name"),
		Description: get("description"),
		Category:    get("category"),
		Location:    get("location"),
		Supplier:    get("supplier"),
		UnitPrice:   decimal.Zero,
	}
	if row.Barcode == "" {
		return row, errors.New("código de barras vacío")
	}
	if row.Name == "" {
		return row, errors.New("nombre vacío")
	}
	var err error
	if row.Quantity, err = parseInt(get("quantity")); err != nil {
		return row, fmt.Errorf("quantity: %w", err)
	}
	if row.MinQuantity, err = parseInt(get("min_quantity")); err != nil {
		return row, fmt.Errorf("min_quantity: %w", err)
	}
	if row.UnitPrice, err = parseDecimal(get("unit_price")); err != nil {
		return row, fmt.Errorf("unit_price: %w", err)
	}
	return row, nil
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q no es un entero", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%d es negativo", n)
	}
	return n, nil
}

// parseDecimal acepta "1234.5", "1234,5" y "1.234,50".
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	normalized := s
	if strings.Contains(s, ",") {
		normalized = strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q no es un número", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s es negativo", s)
	}
	return d, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
