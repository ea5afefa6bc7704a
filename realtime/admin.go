package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/piru-app/admin-realtime/models"
	"github.com/piru-app/admin-realtime/utils"
)

// Las notificaciones retenidas en memoria se acotan; al llegar pushes
// nuevos se desaloja primero la más vieja.
const maxNotifications = 100

// NotificationAPI es la porción del colaborador REST que confirma las
// mutaciones optimistas del feed.
type NotificationAPI interface {
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) error
	DeleteAllNotifications(ctx context.Context) error
}

type AdminConfig struct {
	WSURL string
	API   NotificationAPI

	// Overrides para tests; cero usa los valores de producción.
	ReconnectDelay time.Duration
	Heartbeat      time.Duration
	Dialer         Dialer
}

// AdminState es la instantánea que consume la UI.
type AdminState struct {
	Mesas         []models.MesaConPedido
	Notifications []models.Notification
	Subtotales    map[int]models.SubtotalesUpdate
	IsConnected   bool
	Error         string
	UnreadCount   int
}

// AdminFeed mantiene el estado del panel admin alimentado por el canal
// websocket: mesas con su pedido, notificaciones durables y subtotales
// de pago dividido por pedido.
type AdminFeed struct {
	sess *session
	api  NotificationAPI

	// protegidos por sess.mu
	token         string
	mesas         []models.MesaConPedido
	notifications []models.Notification
	seen          map[string]bool
	subtotales    map[int]models.SubtotalesUpdate
	subs          []chan struct{}
}

func NewAdminFeed(cfg AdminConfig) *AdminFeed {
	f := &AdminFeed{
		api:        cfg.API,
		seen:       make(map[string]bool),
		subtotales: make(map[int]models.SubtotalesUpdate),
	}

	dialer := cfg.Dialer
	if dialer == nil {
		dialer = wsDialer{}
	}
	delay := cfg.ReconnectDelay
	if delay == 0 {
		delay = adminReconnectDelay
	}
	heartbeat := cfg.Heartbeat
	if heartbeat == 0 {
		heartbeat = defaultHeartbeat
	}

	f.sess = &session{
		name:           "ws-admin",
		dialer:         dialer,
		reconnectDelay: delay,
		heartbeatEvery: heartbeat,
		credentialErr:  "Token inválido - Por favor inicia sesión nuevamente",
		notify:         f.broadcastLocked,
	}
	f.sess.url = func() string {
		return fmt.Sprintf("%s/ws/admin?token=%s", cfg.WSURL, url.QueryEscape(f.token))
	}
	f.sess.routes = map[string]func(json.RawMessage){
		MsgAdminEstadoMesas:           f.handleEstadoMesas,
		MsgAdminNotificacionesInicial: f.handleNotificacionesInicial,
		MsgAdminNotificacion:          f.handleNotificacion,
		MsgAdminSubtotales:            f.handleSubtotales,
		MsgPong:                       func(json.RawMessage) {},
	}
	return f
}

// SetToken arranca la sesión cuando hay credencial y la desmonta al
// quedarse sin ella. Un token nuevo supersede la sesión vigente.
func (f *AdminFeed) SetToken(token string) {
	f.sess.mu.Lock()
	f.token = token
	f.sess.mu.Unlock()

	if token == "" {
		f.sess.stop()
		f.sess.mu.Lock()
		f.mesas = nil
		f.notifications = nil
		f.seen = make(map[string]bool)
		f.subtotales = make(map[int]models.SubtotalesUpdate)
		f.broadcastLocked()
		f.sess.mu.Unlock()
		return
	}
	f.sess.start()
}

func (f *AdminFeed) Stop() {
	f.sess.stop()
}

// Snapshot devuelve una copia del estado; los consumidores nunca ven
// las estructuras internas.
func (f *AdminFeed) Snapshot() AdminState {
	f.sess.mu.Lock()
	defer f.sess.mu.Unlock()

	st := AdminState{
		Mesas:         append([]models.MesaConPedido(nil), f.mesas...),
		Notifications: append([]models.Notification(nil), f.notifications...),
		Subtotales:    make(map[int]models.SubtotalesUpdate, len(f.subtotales)),
		IsConnected:   f.sess.connected,
		Error:         f.sess.lastErr,
	}
	for k, v := range f.subtotales {
		st.Subtotales[k] = v
	}
	for _, n := range f.notifications {
		if !n.Leida {
			st.UnreadCount++
		}
	}
	return st
}

// Subscribe entrega un canal que recibe un aviso (coalescido) cada vez
// que cambia el estado.
func (f *AdminFeed) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	f.sess.mu.Lock()
	f.subs = append(f.subs, ch)
	f.sess.mu.Unlock()
	return ch
}

func (f *AdminFeed) Unsubscribe(ch chan struct{}) {
	f.sess.mu.Lock()
	defer f.sess.mu.Unlock()
	for i, sub := range f.subs {
		if sub == ch {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return
		}
	}
}

func (f *AdminFeed) broadcastLocked() {
	for _, ch := range f.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Refresh pide al servidor un snapshot completo de mesas por el propio
// socket. Sin conexión no hace nada: el fallback REST es del
// colaborador externo.
func (f *AdminFeed) Refresh() {
	f.sess.mu.Lock()
	defer f.sess.mu.Unlock()
	_ = f.sess.sendLocked(outFrame{Type: MsgRefreshMesas})
}

// MarkAsRead marca leída la notificación localmente y confirma por
// REST en segundo plano. Si el REST falla no se revierte: el próximo
// snapshot completo reconcilia.
func (f *AdminFeed) MarkAsRead(ctx context.Context, id string) {
	f.sess.mu.Lock()
	for i := range f.notifications {
		if f.notifications[i].ID == id {
			f.notifications[i].Leida = true
		}
	}
	f.broadcastLocked()
	f.sess.mu.Unlock()

	if f.api == nil {
		return
	}
	go func() {
		if err := f.api.MarkNotificationRead(ctx, id); err != nil {
			utils.ErrorLogger.Errorf("ws-admin: confirmar lectura de %s: %v", id, err)
		}
	}()
}

func (f *AdminFeed) MarkAllAsRead(ctx context.Context) {
	f.sess.mu.Lock()
	for i := range f.notifications {
		f.notifications[i].Leida = true
	}
	f.broadcastLocked()
	f.sess.mu.Unlock()

	if f.api == nil {
		return
	}
	go func() {
		if err := f.api.MarkAllNotificationsRead(ctx); err != nil {
			utils.ErrorLogger.Errorf("ws-admin: confirmar lectura masiva: %v", err)
		}
	}()
}

func (f *AdminFeed) DeleteNotification(ctx context.Context, id string) {
	f.sess.mu.Lock()
	for i := range f.notifications {
		if f.notifications[i].ID == id {
			f.notifications = append(f.notifications[:i], f.notifications[i+1:]...)
			break
		}
	}
	f.broadcastLocked()
	f.sess.mu.Unlock()

	if f.api == nil {
		return
	}
	go func() {
		if err := f.api.DeleteNotification(ctx, id); err != nil {
			utils.ErrorLogger.Errorf("ws-admin: confirmar borrado de %s: %v", id, err)
		}
	}()
}

func (f *AdminFeed) ClearNotifications(ctx context.Context) {
	f.sess.mu.Lock()
	f.notifications = nil
	f.seen = make(map[string]bool)
	f.broadcastLocked()
	f.sess.mu.Unlock()

	if f.api == nil {
		return
	}
	go func() {
		if err := f.api.DeleteAllNotifications(ctx); err != nil {
			utils.ErrorLogger.Errorf("ws-admin: confirmar limpieza: %v", err)
		}
	}()
}

// Los handlers corren con sess.mu tomado, uno por vez y en orden de
// llegada.

func (f *AdminFeed) handleEstadoMesas(payload json.RawMessage) {
	var p struct {
		Mesas []models.MesaConPedido `json:"mesas"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		utils.ErrorLogger.Errorf("ws-admin: payload de mesas ilegible: %v", err)
		return
	}
	if p.Mesas == nil {
		p.Mesas = []models.MesaConPedido{}
	}
	f.mesas = p.Mesas
}

func (f *AdminFeed) handleNotificacionesInicial(payload json.RawMessage) {
	var p struct {
		Notificaciones []models.Notification `json:"notificaciones"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		utils.ErrorLogger.Errorf("ws-admin: snapshot de notificaciones ilegible: %v", err)
		return
	}
	f.seen = make(map[string]bool)
	f.notifications = make([]models.Notification, 0, len(p.Notificaciones))
	for _, n := range p.Notificaciones {
		n.Timestamp = normalizeTimestamp(n.Timestamp)
		f.notifications = append(f.notifications, n)
		f.seen[n.ID] = true
	}
}

func (f *AdminFeed) handleNotificacion(payload json.RawMessage) {
	var n models.Notification
	if err := json.Unmarshal(payload, &n); err != nil {
		utils.ErrorLogger.Errorf("ws-admin: notificación ilegible: %v", err)
		return
	}
	if f.seen[n.ID] {
		return
	}
	f.seen[n.ID] = true
	n.Timestamp = normalizeTimestamp(n.Timestamp)

	f.notifications = append([]models.Notification{n}, f.notifications...)
	if len(f.notifications) > maxNotifications {
		f.notifications = f.notifications[:maxNotifications]
	}
	utils.InfoLogger.Printf("ws-admin: notificación %s: %s", n.Tipo, n.Mensaje)
}

func (f *AdminFeed) handleSubtotales(payload json.RawMessage) {
	var upd models.SubtotalesUpdate
	if err := json.Unmarshal(payload, &upd); err != nil {
		utils.ErrorLogger.Errorf("ws-admin: subtotales ilegibles: %v", err)
		return
	}
	f.subtotales[upd.PedidoID] = upd
}

// normalizeTimestamp asegura RFC3339; ausente o ilegible se sustituye
// por ahora.
func normalizeTimestamp(ts string) string {
	if ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			return parsed.Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}
