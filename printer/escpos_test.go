package printer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piru-app/admin-realtime/models"
)

func fixedClock(t *testing.T) {
	t.Helper()
	prev := now
	now = func() time.Time {
		return time.Date(2026, 3, 14, 13, 45, 0, 0, time.UTC)
	}
	t.Cleanup(func() { now = prev })
}

func itemCafe() models.ItemPedido {
	return models.ItemPedido{
		ID:             1,
		ClienteNombre:  "Ana",
		Cantidad:       2,
		PrecioUnitario: "5.00",
		NombreProducto: "Cafe",
	}
}

func TestComandaContieneCabeceraYTotal(t *testing.T) {
	fixedClock(t)

	frags := Comanda(Ticket{PedidoID: 7, MesaNombre: "Terraza 2", Total: "25.00"},
		[]models.ItemPedido{itemCafe()}, "La Piruleta")
	texto := strings.Join(frags, "")

	assert.Contains(t, texto, "La Piruleta\n")
	assert.Contains(t, texto, "COCINA\n")
	assert.Contains(t, texto, "Pedido: #7\n")
	assert.Contains(t, texto, "Fecha: 14/03/2026 13:45\n")
	assert.Contains(t, texto, "Mesa: Terraza 2\n")
	// El total registrado gana sobre la suma de líneas (2 x 5.00 = 10).
	assert.Contains(t, texto, "TOTAL: 25,00\n")
	assert.NotContains(t, texto, "TOTAL: 10,00")
	assert.True(t, strings.HasPrefix(texto, cmdInit+cmdCodePage437))
	assert.True(t, strings.HasSuffix(texto, cmdCut))
}

func TestComandaSinTotalRegistradoSumaLineas(t *testing.T) {
	fixedClock(t)

	items := []models.ItemPedido{
		itemCafe(),
		{Cantidad: 1, PrecioUnitario: "3.50", NombreProducto: "Tostada"},
	}
	texto := strings.Join(Comanda(Ticket{PedidoID: 8}, items, "La Piruleta"), "")

	assert.Contains(t, texto, "TOTAL: 13,50\n")
}

func TestComandaLineasDeItem(t *testing.T) {
	fixedClock(t)

	item := itemCafe()
	item.IngredientesExcluidosNombres = []string{"azucar", "leche"}
	texto := strings.Join(Comanda(Ticket{PedidoID: 7}, []models.ItemPedido{item}, ""), "")

	assert.Contains(t, texto, "2,000 x 5,00\n")
	assert.Contains(t, texto, columnLine("Cafe", "10,00", lineWidth)+"\n")
	assert.Contains(t, texto, "   SIN: azucar, leche\n")
}

func TestComandaOmiteCamposVacios(t *testing.T) {
	fixedClock(t)

	texto := strings.Join(Comanda(Ticket{PedidoID: 7}, nil, ""), "")

	assert.NotContains(t, texto, "Mesa:")
	assert.NotContains(t, texto, "Cliente:")
	assert.Contains(t, texto, "TOTAL: 0,00\n")
}

func TestComandaEsDeterminista(t *testing.T) {
	fixedClock(t)

	items := []models.ItemPedido{itemCafe()}
	a := ToBytes(Comanda(Ticket{PedidoID: 7, Total: "25.00"}, items, "La Piruleta"))
	b := ToBytes(Comanda(Ticket{PedidoID: 7, Total: "25.00"}, items, "La Piruleta"))

	require.True(t, bytes.Equal(a, b))
}

func TestFacturaAgrupaPorCliente(t *testing.T) {
	fixedClock(t)

	items := []models.ItemPedido{
		{ClienteNombre: "Ana", Cantidad: 1, PrecioUnitario: "5.00", NombreProducto: "Cafe"},
		{ClienteNombre: "Luis", Cantidad: 2, PrecioUnitario: "3.00", NombreProducto: "Tostada"},
		{ClienteNombre: "Ana", Cantidad: 1, PrecioUnitario: "2.50", NombreProducto: "Zumo"},
		{Cantidad: 1, PrecioUnitario: "1.00", NombreProducto: "Pan"},
	}
	texto := strings.Join(Factura(Ticket{PedidoID: 9}, items, "La Piruleta"), "")

	assert.Contains(t, texto, "FACTURA\n")

	// Orden de primera aparición, con los items de Ana reunidos en su
	// grupo aunque lleguen intercalados.
	posAna := strings.Index(texto, "--- ANA ---")
	posLuis := strings.Index(texto, "--- LUIS ---")
	posSinNombre := strings.Index(texto, "--- SIN NOMBRE ---")
	require.True(t, posAna >= 0 && posLuis >= 0 && posSinNombre >= 0)
	assert.Less(t, posAna, posLuis)
	assert.Less(t, posLuis, posSinNombre)

	posZumo := strings.Index(texto, "Zumo")
	assert.Greater(t, posZumo, posAna)
	assert.Less(t, posZumo, posLuis)

	// Subtotales por grupo: Ana 7,50, Luis 6,00, Sin nombre 1,00.
	assert.Contains(t, texto, columnLine("Subtotal", "7,50", lineWidth)+"\n")
	assert.Contains(t, texto, columnLine("Subtotal", "6,00", lineWidth)+"\n")
	assert.Contains(t, texto, columnLine("Subtotal", "1,00", lineWidth)+"\n")
	assert.Contains(t, texto, "TOTAL: 14,50\n")
}

func TestToBytesAplanaLatin1(t *testing.T) {
	out := ToBytes([]string{"Café", cmdCut})

	require.Equal(t, 8, len(out))
	assert.Equal(t, byte('C'), out[0])
	assert.Equal(t, byte(0xE9), out[3])
	assert.Equal(t, []byte{0x1d, 'V', 0x41, 0x00}, out[4:])
}

func TestToBytesReemplazaFueraDeRango(t *testing.T) {
	out := ToBytes([]string{"a€b"})

	assert.Equal(t, []byte{'a', '?', 'b'}, out)
}

func TestColumnLine(t *testing.T) {
	assert.Equal(t, "Cafe       10,00", columnLine("Cafe", "10,00", 16))
	assert.Equal(t, 16, len(columnLine("Nombre larguisimo de producto", "10,00", 16)))
	assert.Equal(t, "Nombre lar 10,00", columnLine("Nombre larguisimo de producto", "10,00", 16))
	// El monto nunca se trunca por la izquierda salvo que exceda el ancho.
	assert.Equal(t, "4,50", columnLine("x", "1.234,50", 4))
}

func TestFormatDecimal(t *testing.T) {
	assert.Equal(t, "0,00", formatImporte(0))
	assert.Equal(t, "10,00", formatImporte(10))
	assert.Equal(t, "1.234,50", formatImporte(1234.5))
	assert.Equal(t, "1.234.567,89", formatImporte(1234567.89))
	assert.Equal(t, "-1.234,50", formatImporte(-1234.5))
	assert.Equal(t, "2,000", formatCantidad(2))
	assert.Equal(t, "0,500", formatCantidad(0.5))
}

func TestParseMonto(t *testing.T) {
	assert.Equal(t, 25.0, parseMonto("25.00"))
	assert.Equal(t, 3.5, parseMonto(" 3.5 "))
	assert.Equal(t, 0.0, parseMonto("no-numerico"))
	assert.Equal(t, 0.0, parseMonto(""))
}
