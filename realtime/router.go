package realtime

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Tipos de mensaje del canal admin.
const (
	MsgAdminEstadoMesas           = "ADMIN_ESTADO_MESAS"
	MsgAdminNotificacionesInicial = "ADMIN_NOTIFICACIONES_INICIAL"
	MsgAdminNotificacion          = "ADMIN_NOTIFICACION"
	MsgAdminSubtotales            = "ADMIN_SUBTOTALES_ACTUALIZADOS"
)

// Tipos de mensaje del canal de mesa.
const (
	MsgEstadoInicial       = "ESTADO_INICIAL"
	MsgClienteUnido        = "CLIENTE_UNIDO"
	MsgClienteDesconectado = "CLIENTE_DESCONECTADO"
	MsgItemAgregado        = "ITEM_AGREGADO"
	MsgItemEliminado       = "ITEM_ELIMINADO"
	MsgCantidadActualizada = "CANTIDAD_ACTUALIZADA"
	MsgPedidoActualizado   = "PEDIDO_ACTUALIZADO"
	MsgPedidoConfirmado    = "PEDIDO_CONFIRMADO"
	MsgPedidoCerrado       = "PEDIDO_CERRADO"
	MsgError               = "ERROR"
)

// Frames de control en ambas direcciones.
const (
	MsgPing             = "PING"
	MsgPong             = "PONG"
	MsgRefreshMesas     = "REFRESH_MESAS"
	MsgClienteConectado = "CLIENTE_CONECTADO"
)

// envelope es la forma de todo frame entrante: un discriminador y un
// payload específico del tipo.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outFrame struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

func newConnectionID() string {
	return "conn-" + uuid.NewString()
}
