package csvimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/Inventario-conteo/internal/domain"
)

func TestDecode_Coma(t *testing.T) {
	in := "\xEF\xBB\xBFbarcode,name,category,quantity,min_quantity,unit_price\n" +
		"123,Tornillo,Ferretería,50,10,0.25\n" +
		"\n" +
		"456,\"Tuerca, 1/2\",,5,,1.5\n"
	rows, errs, err := NewDecoder(0).Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Empty(t, errs)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "123", rows[0].Barcode)
	assert.Equal(t, "Ferretería", rows[0].Category)
	assert.Equal(t, 50, rows[0].Quantity)
	assert.Equal(t, 10, rows[0].MinQuantity)
	assert.Equal(t, "0.25", rows[0].UnitPrice.String())

	assert.Equal(t, 4, rows[1].Line)
	assert.Equal(t, "Tuerca, 1/2", rows[1].Name)
	assert.Equal(t, 0, rows[1].MinQuantity)
}

func TestDecode_PuntoYComaWindows1252(t *testing.T) {
	utf := "Código de barras;Nombre;Cantidad;Precio\n789;Café molido;3;1.234,50\n"
	latin, err := charmap.Windows1252.NewEncoder().String(utf)
	require.NoError(t, err)

	rows, errs, err := NewDecoder(0).Decode(strings.NewReader(latin))
	require.NoError(t, err)
	assert.Empty(t, errs)
	require.Len(t, rows, 1)
	assert.Equal(t, "789", rows[0].Barcode)
	assert.Equal(t, "Café molido", rows[0].Name)
	assert.Equal(t, 3, rows[0].Quantity)
	assert.Equal(t, "1234.5", rows[0].UnitPrice.String())
}

func TestDecode_ErroresPorFila(t *testing.T) {
	in := "barcode,name,quantity\n" +
		"1,Uno,diez\n" +
		",SinCodigo,1\n" +
		"3,Tres,-4\n" +
		"4,Cuatro,4\n"
	rows, errs, err := NewDecoder(0).Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "4", rows[0].Barcode)

	require.Len(t, errs, 3)
	assert.Equal(t, 2, errs[0].Line)
	assert.Equal(t, "1", errs[0].Barcode)
	assert.Contains(t, errs[0].Message, "quantity")
	assert.Equal(t, 3, errs[1].Line)
	assert.Equal(t, 4, errs[2].Line)
}

func TestDecode_ArchivoInvalido(t *testing.T) {
	cases := map[string]string{
		"vacío":          "",
		"sin barcode":    "name,quantity\nx,1\n",
		"comillas rotas": "barcode,name\n1,\"abierta\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := NewDecoder(0).Decode(strings.NewReader(in))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestDecode_MaxRows(t *testing.T) {
	in := "barcode,name\n1,a\n2,b\n3,c\n"
	_, _, err := NewDecoder(2).Decode(strings.NewReader(in))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ';', detectDelimiter([]byte("a;b;c\n1,5;2;3")))
	assert.Equal(t, ',', detectDelimiter([]byte("a,b\n")))
}
