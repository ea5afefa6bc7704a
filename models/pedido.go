package models

// Estados por los que avanza un pedido.
const (
	EstadoPending   = "pending"
	EstadoPreparing = "preparing"
	EstadoDelivered = "delivered"
	EstadoClosed    = "closed"
)

type Pedido struct {
	ID        int     `json:"id"`
	Estado    string  `json:"estado"`
	Total     string  `json:"total"`
	CreatedAt string  `json:"createdAt"`
	ClosedAt  *string `json:"closedAt,omitempty"`
}

// PedidoDetalle es lo que devuelve el lookup REST de un pedido.
type PedidoDetalle struct {
	Pedido       Pedido       `json:"pedido"`
	Items        []ItemPedido `json:"items"`
	MesaID       *int         `json:"mesaId,omitempty"`
	MesaNombre   string       `json:"mesaNombre,omitempty"`
	NombrePedido string       `json:"nombrePedido,omitempty"`
}

// ItemPedido es una línea del pedido. Cantidad es fraccionaria para
// productos pesados.
type ItemPedido struct {
	ID                           int      `json:"id"`
	ProductoID                   int      `json:"productoId"`
	ClienteNombre                string   `json:"clienteNombre"`
	Cantidad                     float64  `json:"cantidad"`
	PrecioUnitario               string   `json:"precioUnitario"`
	NombreProducto               string   `json:"nombreProducto,omitempty"`
	ImagenURL                    *string  `json:"imagenUrl,omitempty"`
	IngredientesExcluidos        []int    `json:"ingredientesExcluidos,omitempty"`
	IngredientesExcluidosNombres []string `json:"ingredientesExcluidosNombres,omitempty"`
	PostConfirmacion             bool     `json:"postConfirmacion,omitempty"`
}
