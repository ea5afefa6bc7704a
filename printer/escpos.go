package printer

import (
	"fmt"
	"strings"
	"time"

	"github.com/piru-app/admin-realtime/models"
)

// Comandos ESC/POS usados por los dos documentos. La impresora trabaja
// en code page 437, un byte por carácter.
const (
	esc = "\x1b"
	gs  = "\x1d"

	cmdInit         = esc + "@"
	cmdCodePage437  = esc + "t" + "\x00"
	cmdAlignLeft    = esc + "a" + "\x00"
	cmdAlignCenter  = esc + "a" + "\x01"
	cmdAlignRight   = esc + "a" + "\x02"
	cmdTextNormal   = esc + "!" + "\x00"
	cmdTextBold     = esc + "!" + "\x08"
	cmdTextTall     = esc + "!" + "\x10"
	cmdTextTallBold = esc + "!" + "\x18"
	cmdTextBig      = esc + "!" + "\x30"
	cmdCut          = gs + "V" + "\x41" + "\x00"
)

// Ancho de papel en columnas con la fuente normal.
const lineWidth = 32

var divider = strings.Repeat("-", lineWidth) + "\n"

// now se sustituye en tests para obtener salida determinista.
var now = time.Now

// Ticket son los datos ya resueltos del pedido a imprimir. Total es el
// total registrado del pedido; vacío, se recalcula sumando las líneas.
type Ticket struct {
	PedidoID      int
	MesaNombre    string
	NombreCliente string
	Total         string
}

// Comanda arma el ticket de cocina como secuencia de fragmentos de
// texto y control listos para aplanar con ToBytes.
func Comanda(t Ticket, items []models.ItemPedido, restauranteNombre string) []string {
	frags := []string{
		cmdInit,
		cmdCodePage437,

		cmdAlignCenter,
		cmdTextBig,
		restauranteNombre + "\n",
		cmdTextTall,
		"COCINA\n",
		cmdTextNormal,
		divider,

		cmdAlignLeft,
		cmdTextBold,
		fmt.Sprintf("Pedido: #%d\n", t.PedidoID),
	}

	ts := now()
	frags = append(frags, fmt.Sprintf("Fecha: %s\n", ts.Format("02/01/2006 15:04")))
	if t.MesaNombre != "" {
		frags = append(frags, fmt.Sprintf("Mesa: %s\n", t.MesaNombre))
	}
	if t.NombreCliente != "" {
		frags = append(frags, fmt.Sprintf("Cliente: %s\n", t.NombreCliente))
	}
	frags = append(frags, cmdTextNormal, divider)

	for _, item := range items {
		frags = append(frags,
			fmt.Sprintf("%s x %s\n", formatCantidad(item.Cantidad), formatImporte(parseMonto(item.PrecioUnitario))),
			cmdTextBold,
			columnLine(nombreProducto(item), formatImporte(subtotalItem(item)), lineWidth)+"\n",
			cmdTextNormal,
		)
		if len(item.IngredientesExcluidosNombres) > 0 {
			frags = append(frags, fmt.Sprintf("   SIN: %s\n", strings.Join(item.IngredientesExcluidosNombres, ", ")))
		}
	}

	frags = append(frags,
		divider,
		cmdAlignRight,
		cmdTextTall,
		fmt.Sprintf("TOTAL: %s\n", formatImporte(totalPedido(t.Total, items))),
		cmdTextNormal,
		cmdAlignCenter,
		"Gracias por su visita\n",
		cmdAlignLeft,
		"\n\n\n\n",
		cmdCut,
	)
	return frags
}

// Factura arma la factura del cliente con los items agrupados por quien
// los pidió y un subtotal por grupo.
func Factura(t Ticket, items []models.ItemPedido, restauranteNombre string) []string {
	frags := []string{
		cmdInit,
		cmdCodePage437,

		cmdAlignCenter,
		cmdTextBig,
		restauranteNombre + "\n",
		cmdTextTall,
		"FACTURA\n",
		cmdTextNormal,
		divider,

		cmdAlignLeft,
		cmdTextBold,
		fmt.Sprintf("Pedido: #%d\n", t.PedidoID),
	}

	ts := now()
	frags = append(frags, fmt.Sprintf("Fecha: %s\n", ts.Format("02/01/2006 15:04")))
	if t.MesaNombre != "" {
		frags = append(frags, fmt.Sprintf("Mesa: %s\n", t.MesaNombre))
	}
	frags = append(frags, cmdTextNormal, divider)

	for _, grupo := range agruparPorCliente(items) {
		frags = append(frags,
			cmdTextBold,
			fmt.Sprintf("--- %s ---\n", strings.ToUpper(grupo.nombre)),
			cmdTextNormal,
		)
		var subtotalGrupo float64
		for _, item := range grupo.items {
			sub := subtotalItem(item)
			subtotalGrupo += sub
			frags = append(frags,
				columnLine(nombreProducto(item), formatImporte(sub), lineWidth)+"\n",
				fmt.Sprintf("  %s x %s\n", formatCantidad(item.Cantidad), formatImporte(parseMonto(item.PrecioUnitario))),
			)
			if len(item.IngredientesExcluidosNombres) > 0 {
				frags = append(frags, fmt.Sprintf("   SIN: %s\n", strings.Join(item.IngredientesExcluidosNombres, ", ")))
			}
		}
		frags = append(frags,
			cmdTextBold,
			columnLine("Subtotal", formatImporte(subtotalGrupo), lineWidth)+"\n",
			cmdTextNormal,
			"\n",
		)
	}

	frags = append(frags,
		divider,
		cmdAlignRight,
		cmdTextTallBold,
		fmt.Sprintf("TOTAL: %s\n", formatImporte(totalPedido(t.Total, items))),
		cmdTextNormal,
		cmdAlignCenter,
		"Gracias por su visita\n",
		cmdAlignLeft,
		"\n\n\n\n",
		cmdCut,
	)
	return frags
}

// ToBytes aplana los fragmentos a bytes crudos mapeando cada carácter a
// su code point 0-255, sin expansión UTF-8: los bytes de control y el
// texto latin-1 pasan byte a byte. Lo que no cabe en un byte sale como
// '?'.
func ToBytes(frags []string) []byte {
	var out []byte
	for _, frag := range frags {
		for _, r := range frag {
			if r < 256 {
				out = append(out, byte(r))
			} else {
				out = append(out, '?')
			}
		}
	}
	return out
}

type grupoCliente struct {
	nombre string
	items  []models.ItemPedido
}

// agruparPorCliente conserva el orden de primera aparición de cada
// pagador.
func agruparPorCliente(items []models.ItemPedido) []grupoCliente {
	var grupos []grupoCliente
	indice := make(map[string]int)
	for _, item := range items {
		nombre := item.ClienteNombre
		if nombre == "" {
			nombre = "Sin nombre"
		}
		i, ok := indice[nombre]
		if !ok {
			i = len(grupos)
			indice[nombre] = i
			grupos = append(grupos, grupoCliente{nombre: nombre})
		}
		grupos[i].items = append(grupos[i].items, item)
	}
	return grupos
}

func nombreProducto(item models.ItemPedido) string {
	if item.NombreProducto != "" {
		return item.NombreProducto
	}
	return "Producto"
}

func subtotalItem(item models.ItemPedido) float64 {
	return item.Cantidad * parseMonto(item.PrecioUnitario)
}

// totalPedido aplica la precedencia observada: el total registrado del
// pedido gana sobre la suma recalculada de las líneas.
func totalPedido(registrado string, items []models.ItemPedido) float64 {
	if registrado != "" {
		return parseMonto(registrado)
	}
	var suma float64
	for _, item := range items {
		suma += subtotalItem(item)
	}
	return suma
}

// columnLine alinea nombre a la izquierda y monto a la derecha en un
// ancho fijo, truncando el nombre si no entra.
func columnLine(left, right string, width int) string {
	if len(right) >= width {
		return right[len(right)-width:]
	}
	maxLeft := width - len(right) - 1
	if len(left) > maxLeft {
		left = left[:maxLeft]
	}
	return left + strings.Repeat(" ", width-len(left)-len(right)) + right
}
