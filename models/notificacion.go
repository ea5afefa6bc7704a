package models

// Tipos de notificación que el backend puede emitir.
const (
	NotifNuevoPedido      = "NUEVO_PEDIDO"
	NotifPedidoConfirmado = "PEDIDO_CONFIRMADO"
	NotifPedidoCerrado    = "PEDIDO_CERRADO"
	NotifLlamadaMozo      = "LLAMADA_MOZO"
	NotifPagoRecibido     = "PAGO_RECIBIDO"
	NotifProductoAgregado = "PRODUCTO_AGREGADO"
)

// Notification es un evento durable originado en el servidor. El ID es
// estable entre reconexiones y es la clave de deduplicación.
type Notification struct {
	ID         string `json:"id"`
	Tipo       string `json:"tipo"`
	MesaID     int    `json:"mesaId"`
	MesaNombre string `json:"mesaNombre,omitempty"`
	PedidoID   *int   `json:"pedidoId,omitempty"`
	Mensaje    string `json:"mensaje"`
	Detalles   string `json:"detalles,omitempty"`
	Timestamp  string `json:"timestamp"`
	Leida      bool   `json:"leida"`
}
