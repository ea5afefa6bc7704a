package realtime

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/piru-app/admin-realtime/models"
	"github.com/piru-app/admin-realtime/utils"
)

type MesaConfig struct {
	WSURL   string
	QRToken string

	// Identidad con la que el observador se anuncia; por defecto se
	// sintetiza una que el filtro de clientes excluye del roster.
	ObserverID   string
	ObserverName string

	// Overrides para tests; cero usa los valores de producción.
	ReconnectDelay time.Duration
	Heartbeat      time.Duration
	Dialer         Dialer
}

// MesaFeed observa una sola mesa por su qrToken, como si fuera un
// cliente más. Su estado es nulo hasta el primer ESTADO_INICIAL.
type MesaFeed struct {
	sess *session

	// protegidos por sess.mu
	state *models.MesaState
	subs  []chan struct{}
}

func NewMesaFeed(cfg MesaConfig) *MesaFeed {
	f := &MesaFeed{}

	dialer := cfg.Dialer
	if dialer == nil {
		dialer = wsDialer{}
	}
	delay := cfg.ReconnectDelay
	if delay == 0 {
		delay = mesaReconnectDelay
	}
	heartbeat := cfg.Heartbeat
	if heartbeat == 0 {
		heartbeat = defaultHeartbeat
	}
	observerID := cfg.ObserverID
	if observerID == "" {
		observerID = "admin-observer-" + uuid.NewString()
	}
	observerName := cfg.ObserverName
	if observerName == "" {
		observerName = "Admin Observer"
	}

	f.sess = &session{
		name:           "ws-mesa",
		dialer:         dialer,
		reconnectDelay: delay,
		heartbeatEvery: heartbeat,
		credentialErr:  "Token de mesa inválido",
		notify:         f.broadcastLocked,
		url: func() string {
			return fmt.Sprintf("%s/ws/%s", cfg.WSURL, cfg.QRToken)
		},
		onOpen: func() {
			_ = f.sess.sendLocked(outFrame{
				Type: MsgClienteConectado,
				Payload: map[string]string{
					"clienteId": observerID,
					"nombre":    observerName,
				},
			})
		},
	}
	f.sess.routes = map[string]func(json.RawMessage){
		MsgEstadoInicial:       f.handleEstadoInicial,
		MsgClienteUnido:        f.handleClientes,
		MsgClienteDesconectado: f.handleClientes,
		MsgItemAgregado:        f.handleMerge(""),
		MsgItemEliminado:       f.handleMerge(""),
		MsgCantidadActualizada: f.handleMerge(""),
		MsgPedidoActualizado:   f.handleMerge(""),
		MsgPedidoConfirmado:    f.handleMerge(models.EstadoPreparing),
		MsgPedidoCerrado:       f.handleMerge(models.EstadoClosed),
		MsgError:               f.handleError,
		MsgPong:                func(json.RawMessage) {},
	}
	return f
}

// Start abre (o reabre, superponiendo la sesión previa) la conexión de
// observación. Nunca hay dos sesiones vivas para el mismo feed.
func (f *MesaFeed) Start() {
	f.sess.start()
}

// Disconnect desmonta la sesión y descarta el estado expuesto.
func (f *MesaFeed) Disconnect() {
	f.sess.stop()
	f.sess.mu.Lock()
	f.state = nil
	f.broadcastLocked()
	f.sess.mu.Unlock()
}

// Send pasa un frame crudo por el socket.
func (f *MesaFeed) Send(raw []byte) error {
	f.sess.mu.Lock()
	defer f.sess.mu.Unlock()
	return f.sess.sendRawLocked(raw)
}

// Snapshot devuelve una copia del estado (nil antes del primer
// snapshot del servidor), la conectividad y el último error.
func (f *MesaFeed) Snapshot() (*models.MesaState, bool, string) {
	f.sess.mu.Lock()
	defer f.sess.mu.Unlock()
	if f.state == nil {
		return nil, f.sess.connected, f.sess.lastErr
	}
	st := *f.state
	st.Clientes = append([]models.ClienteConectado(nil), f.state.Clientes...)
	st.Items = append([]models.ItemPedido(nil), f.state.Items...)
	if f.state.Pedido != nil {
		pedido := *f.state.Pedido
		st.Pedido = &pedido
	}
	return &st, f.sess.connected, f.sess.lastErr
}

func (f *MesaFeed) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	f.sess.mu.Lock()
	f.subs = append(f.subs, ch)
	f.sess.mu.Unlock()
	return ch
}

func (f *MesaFeed) Unsubscribe(ch chan struct{}) {
	f.sess.mu.Lock()
	defer f.sess.mu.Unlock()
	for i, sub := range f.subs {
		if sub == ch {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return
		}
	}
}

func (f *MesaFeed) broadcastLocked() {
	for _, ch := range f.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// mesaPayload cubre todos los mensajes de datos del canal de mesa; los
// campos ausentes quedan en su valor cero y el merge los conserva.
type mesaPayload struct {
	MesaID   int                       `json:"mesaId"`
	PedidoID int                       `json:"pedidoId"`
	Clientes []models.ClienteConectado `json:"clientes"`
	Items    []models.ItemPedido       `json:"items"`
	Total    string                    `json:"total"`
	Estado   string                    `json:"estado"`
	Pedido   *models.Pedido            `json:"pedido"`
}

func (f *MesaFeed) handleEstadoInicial(payload json.RawMessage) {
	var p mesaPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		utils.ErrorLogger.Errorf("ws-mesa: estado inicial ilegible: %v", err)
		return
	}

	total := p.Total
	if total == "" && p.Pedido != nil {
		total = p.Pedido.Total
	}
	if total == "" {
		total = "0.00"
	}
	estado := p.Estado
	if estado == "" && p.Pedido != nil {
		estado = p.Pedido.Estado
	}
	if estado == "" {
		estado = models.EstadoPending
	}
	items := p.Items
	if items == nil {
		items = []models.ItemPedido{}
	}

	f.state = &models.MesaState{
		MesaID:   p.MesaID,
		PedidoID: p.PedidoID,
		Clientes: filterClientes(p.Clientes),
		Items:    items,
		Total:    total,
		Estado:   estado,
		Pedido:   p.Pedido,
	}
}

func (f *MesaFeed) handleClientes(payload json.RawMessage) {
	if f.state == nil {
		return
	}
	var p mesaPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		utils.ErrorLogger.Errorf("ws-mesa: roster ilegible: %v", err)
		return
	}
	if p.Clientes != nil {
		f.state.Clientes = filterClientes(p.Clientes)
	}
}

// handleMerge aplica los campos presentes del payload y conserva los
// previos para los ausentes; forceEstado pisa el estado sin importar
// lo que diga el payload.
func (f *MesaFeed) handleMerge(forceEstado string) func(json.RawMessage) {
	return func(payload json.RawMessage) {
		if f.state == nil {
			return
		}
		var p mesaPayload
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &p); err != nil {
				utils.ErrorLogger.Errorf("ws-mesa: actualización ilegible: %v", err)
				return
			}
		}
		if p.Items != nil {
			f.state.Items = p.Items
		}
		if p.Total != "" {
			f.state.Total = p.Total
		}
		if p.Estado != "" {
			f.state.Estado = p.Estado
		}
		if p.Pedido != nil {
			f.state.Pedido = p.Pedido
		}
		if forceEstado != "" {
			f.state.Estado = forceEstado
		}
	}
}

func (f *MesaFeed) handleError(payload json.RawMessage) {
	var p struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		utils.ErrorLogger.Errorf("ws-mesa: error ilegible: %v", err)
		return
	}
	// El estado de datos no se toca; solo se expone el error.
	f.sess.lastErr = p.Message
}

// filterClientes excluye las conexiones de observación del admin del
// roster visible: ids "admin-*" y nombres con Admin u Observer.
func filterClientes(clientes []models.ClienteConectado) []models.ClienteConectado {
	out := make([]models.ClienteConectado, 0, len(clientes))
	for _, c := range clientes {
		if strings.HasPrefix(c.ID, "admin-") {
			continue
		}
		if strings.Contains(c.Nombre, "Admin") || strings.Contains(c.Nombre, "Observer") {
			continue
		}
		out = append(out, c)
	}
	return out
}
