package models

// Mesa es la forma básica que maneja el CRUD REST; la vista realtime
// usa MesaConPedido.
type Mesa struct {
	ID      int    `json:"id"`
	Nombre  string `json:"nombre"`
	QRToken string `json:"qrToken"`
}

type ClienteConectado struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

// MesaConPedido es la vista admin de una mesa física con su pedido en
// curso. Se reemplaza completa con cada snapshot ADMIN_ESTADO_MESAS.
type MesaConPedido struct {
	ID                 int                `json:"id"`
	Nombre             string             `json:"nombre"`
	QRToken            string             `json:"qrToken"`
	Pedido             *Pedido            `json:"pedido"`
	Items              []ItemPedido       `json:"items"`
	ClientesConectados []ClienteConectado `json:"clientesConectados"`
	TotalItems         int                `json:"totalItems"`
	TodosPagaron       *bool              `json:"todosPagaron,omitempty"`
}

// MesaState es el snapshot que ve un observador de una sola mesa. Nulo
// hasta que llega ESTADO_INICIAL.
type MesaState struct {
	MesaID   int                `json:"mesaId"`
	PedidoID int                `json:"pedidoId"`
	Clientes []ClienteConectado `json:"clientes"`
	Items    []ItemPedido       `json:"items"`
	Total    string             `json:"total"`
	Estado   string             `json:"estado"`
	Pedido   *Pedido            `json:"pedido,omitempty"`
}
