package printer

import (
	"strconv"
	"strings"
)

// Los montos llegan como strings decimales del backend; uno ilegible
// vale 0 antes que abortar la impresión.
func parseMonto(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

// formatImporte renderiza un monto con 2 decimales en convención
// es-ES: coma decimal, punto de miles. 1234.5 -> "1.234,50".
func formatImporte(v float64) string {
	return formatDecimal(v, 2)
}

// formatCantidad renderiza una cantidad con 3 decimales (productos
// pesados admiten fracciones). 2 -> "2,000".
func formatCantidad(v float64) string {
	return formatDecimal(v, 3)
}

func formatDecimal(v float64, decimales int) string {
	negativo := v < 0
	if negativo {
		v = -v
	}

	plano := strconv.FormatFloat(v, 'f', decimales, 64)
	partes := strings.SplitN(plano, ".", 2)
	entero := partes[0]

	// Agrupar la parte entera de a tres, como hace el backend con sus
	// importes.
	var grupos []string
	for i := len(entero); i > 0; i -= 3 {
		inicio := i - 3
		if inicio < 0 {
			inicio = 0
		}
		grupos = append([]string{entero[inicio:i]}, grupos...)
	}

	out := strings.Join(grupos, ".")
	if len(partes) == 2 {
		out += "," + partes[1]
	}
	if negativo {
		out = "-" + out
	}
	return out
}
