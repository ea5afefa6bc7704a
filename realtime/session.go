package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/piru-app/admin-realtime/utils"
)

const (
	defaultHeartbeat    = 30 * time.Second
	adminReconnectDelay = 3 * time.Second
	mesaReconnectDelay  = 5 * time.Second
)

var ErrNotConnected = errors.New("sin conexión")

// Conn es la porción de *websocket.Conn que usa la sesión. Los tests
// inyectan una implementación falsa.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer abre la conexión saliente.
type Dialer interface {
	Dial(url string) (Conn, error)
}

type wsDialer struct{}

func (wsDialer) Dial(url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// session mantiene como máximo un socket vivo por sesión lógica. Cada
// Start acuña una identidad nueva; cualquier callback (lectura, dial,
// timer de reconexión, heartbeat) comprueba la identidad bajo el mutex
// antes de tocar estado, así un intento superado queda inerte aunque
// sus goroutines sigan terminando.
type session struct {
	mu sync.Mutex

	name           string
	dialer         Dialer
	url            func() string // se invoca con mu tomado
	reconnectDelay time.Duration
	heartbeatEvery time.Duration
	credentialErr  string

	// callbacks del feed, siempre con mu tomado
	onOpen func()
	routes map[string]func(payload json.RawMessage)
	notify func()

	attempt        string
	conn           Conn
	connected      bool
	lastErr        string
	reconnectTimer *time.Timer
	stopHeartbeat  chan struct{}
}

// start invalida el intento anterior y abre una sesión con identidad
// fresca. El socket previo, si existía, se cierra con 1000.
func (s *session) start() {
	s.mu.Lock()
	s.teardownLocked("superseded")
	id := newConnectionID()
	s.attempt = id
	s.mu.Unlock()

	go s.dial(id)
}

// stop es el desmontaje manual: invalida la identidad y cancela timers
// antes de cerrar, de modo que el close que provocamos nosotros mismos
// no re-entre en la lógica de la sesión.
func (s *session) stop() {
	s.mu.Lock()
	s.teardownLocked("cleanup")
	s.attempt = ""
	s.notify()
	s.mu.Unlock()
}

func (s *session) teardownLocked(reason string) {
	if s.reconnectTimer != nil {
		s.reconnectTimer.Stop()
		s.reconnectTimer = nil
	}
	if s.stopHeartbeat != nil {
		close(s.stopHeartbeat)
		s.stopHeartbeat = nil
	}
	if s.conn != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
		_ = s.conn.WriteMessage(websocket.CloseMessage, msg)
		_ = s.conn.Close()
		s.conn = nil
	}
	s.connected = false
}

func (s *session) dial(id string) {
	s.mu.Lock()
	if s.attempt != id {
		s.mu.Unlock()
		return
	}
	target := s.url()
	s.mu.Unlock()

	conn, err := s.dialer.Dial(target)

	s.mu.Lock()
	if s.attempt != id {
		s.mu.Unlock()
		// Intento superado mientras marcaba: el socket sobrante se
		// descarta sin tocar estado.
		if conn != nil {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stale")
			_ = conn.WriteMessage(websocket.CloseMessage, msg)
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		s.connected = false
		s.lastErr = "No se pudo conectar"
		s.scheduleReconnectLocked(id)
		s.notify()
		s.mu.Unlock()
		utils.ErrorLogger.Errorf("%s: fallo al conectar: %v", s.name, err)
		return
	}

	s.conn = conn
	s.connected = true
	s.lastErr = ""
	if s.onOpen != nil {
		s.onOpen()
	}
	stop := make(chan struct{})
	s.stopHeartbeat = stop
	go s.heartbeat(id, conn, stop)
	go s.readLoop(id, conn)
	s.notify()
	s.mu.Unlock()

	utils.InfoLogger.Printf("%s: conectado", s.name)
}

func (s *session) readLoop(id string, conn Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.handleClose(id, closeCode(err))
			return
		}
		s.handleFrame(id, data)
	}
}

// closeCode extrae el status code del cierre; si el transporte murió
// sin frame de cierre se trata como 1006.
func closeCode(err error) int {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return websocket.CloseAbnormalClosure
}

func (s *session) handleFrame(id string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attempt != id {
		return
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		utils.ErrorLogger.Errorf("%s: frame ilegible: %v", s.name, err)
		return
	}
	handler, ok := s.routes[env.Type]
	if !ok {
		// Tipos desconocidos se ignoran en silencio.
		return
	}
	handler(env.Payload)
	s.notify()
}

func (s *session) handleClose(id string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attempt != id {
		return
	}

	s.connected = false
	s.conn = nil
	if s.stopHeartbeat != nil {
		close(s.stopHeartbeat)
		s.stopHeartbeat = nil
	}

	switch code {
	case websocket.CloseNormalClosure:
		// Cierre ordenado: sin reintento.
	case websocket.ClosePolicyViolation:
		// Credencial rechazada: reintentar solo repetiría el rechazo.
		s.lastErr = s.credentialErr
	default:
		s.scheduleReconnectLocked(id)
	}
	s.notify()
}

func (s *session) scheduleReconnectLocked(id string) {
	if s.reconnectTimer != nil {
		s.reconnectTimer.Stop()
	}
	s.reconnectTimer = time.AfterFunc(s.reconnectDelay, func() {
		s.mu.Lock()
		if s.attempt != id {
			s.mu.Unlock()
			return
		}
		s.reconnectTimer = nil
		s.mu.Unlock()
		s.dial(id)
	})
}

func (s *session) heartbeat(id string, conn Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(s.heartbeatEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			if s.attempt == id && s.connected && s.conn == conn {
				_ = s.sendLocked(outFrame{Type: MsgPing})
			}
			s.mu.Unlock()
		case <-stop:
			return
		}
	}
}

func (s *session) sendLocked(v interface{}) error {
	if s.conn == nil || !s.connected {
		return ErrNotConnected
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *session) sendRawLocked(data []byte) error {
	if s.conn == nil || !s.connected {
		return ErrNotConnected
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}
