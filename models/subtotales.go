package models

type SubtotalCliente struct {
	ClienteNombre string `json:"clienteNombre"`
	Monto         string `json:"monto"`
	Pagado        bool   `json:"pagado"`
	MetodoPago    string `json:"metodoPago,omitempty"`
}

// SubtotalesUpdate es el snapshot de pago dividido de un pedido. Cada
// push reemplaza entera la entrada de ese pedidoId.
type SubtotalesUpdate struct {
	PedidoID        int               `json:"pedidoId"`
	MesaID          int               `json:"mesaId"`
	MesaNombre      string            `json:"mesaNombre,omitempty"`
	ClientesPagados []string          `json:"clientesPagados"`
	TodosSubtotales []SubtotalCliente `json:"todosSubtotales"`
}
