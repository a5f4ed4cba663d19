package graph

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"eco-swift-backend/middleware"
	"eco-swift-backend/utils"
)

// graphql-transport-ws message types.
const (
	msgConnectionInit = "connection_init"
	msgConnectionAck  = "connection_ack"
	msgPing           = "ping"
	msgPong           = "pong"
	msgSubscribe      = "subscribe"
	msgNext           = "next"
	msgError          = "error"
	msgComplete       = "complete"
)

const (
	closeInvalidMessage   = 4400
	closeUnauthorized     = 4401
	closeInitTimeout      = 4408
	closeDuplicateID      = 4409
	closeTooManyInit      = 4429
	connectionInitTimeout = 10 * time.Second
)

type wsMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type wsSubscribePayload struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// WSHandler upgrades HTTP requests to the graphql-transport-ws protocol and
// executes operations against the schema. Subscriptions stream until the
// client completes them or the socket closes.
type WSHandler struct {
	schema    graphql.Schema
	jwtSecret []byte
	logger    *zap.Logger
	upgrader  websocket.Upgrader
}

// NewWSHandler builds a websocket handler for the given schema.
func NewWSHandler(schema graphql.Schema, jwtSecret []byte, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		schema:    schema,
		jwtSecret: jwtSecret,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			Subprotocols:    []string{"graphql-transport-ws"},
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	session := &wsSession{
		handler: h,
		conn:    conn,
		ctx:     r.Context(),
		active:  make(map[string]context.CancelFunc),
	}
	session.run()
}

// wsSession is one client connection. writeMu serializes frames because
// subscription goroutines and the read loop both write.
type wsSession struct {
	handler *WSHandler
	conn    *websocket.Conn
	ctx     context.Context

	writeMu sync.Mutex
	acked   bool

	mu     sync.Mutex
	active map[string]context.CancelFunc
}

func (s *wsSession) run() {
	defer s.close()

	initTimer := time.AfterFunc(connectionInitTimeout, func() {
		s.closeWithCode(closeInitTimeout, "connection initialisation timeout")
	})
	defer initTimer.Stop()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.closeWithCode(closeInvalidMessage, "invalid message")
			return
		}

		switch msg.Type {
		case msgConnectionInit:
			if s.acked {
				s.closeWithCode(closeTooManyInit, "too many initialisation requests")
				return
			}
			initTimer.Stop()
			s.acked = true
			s.authenticate(msg.Payload)
			s.write(wsMessage{Type: msgConnectionAck})

		case msgPing:
			s.write(wsMessage{Type: msgPong})

		case msgPong:
			// keepalive reply, nothing to do

		case msgSubscribe:
			if !s.acked {
				s.closeWithCode(closeUnauthorized, "unauthorized")
				return
			}
			if !s.startOperation(msg) {
				return
			}

		case msgComplete:
			s.stopOperation(msg.ID)

		default:
			s.closeWithCode(closeInvalidMessage, "invalid message type")
			return
		}
	}
}

// authenticate reads an optional bearer token from the connection params.
// Header claims set by the HTTP middleware survive as a fallback.
func (s *wsSession) authenticate(payload json.RawMessage) {
	if len(payload) == 0 {
		return
	}
	var params struct {
		Authorization string `json:"authorization"`
		Token         string `json:"token"`
	}
	if err := json.Unmarshal(payload, &params); err != nil {
		return
	}
	token := params.Authorization
	if token == "" {
		token = params.Token
	}
	if token == "" {
		return
	}
	if claims, err := utils.ParseToken(token, s.handler.jwtSecret); err == nil {
		s.ctx = middleware.WithClaims(s.ctx, claims)
	}
}

func (s *wsSession) startOperation(msg wsMessage) bool {
	if msg.ID == "" {
		s.closeWithCode(closeInvalidMessage, "subscribe requires an id")
		return false
	}
	var payload wsSubscribePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.closeWithCode(closeInvalidMessage, "invalid subscribe payload")
		return false
	}

	ctx, cancel := context.WithCancel(s.ctx)
	s.mu.Lock()
	if _, exists := s.active[msg.ID]; exists {
		s.mu.Unlock()
		cancel()
		s.closeWithCode(closeDuplicateID, "subscriber already exists: "+msg.ID)
		return false
	}
	s.active[msg.ID] = cancel
	s.mu.Unlock()

	go func() {
		defer s.stopOperation(msg.ID)

		results := graphql.Subscribe(graphql.Params{
			Schema:         s.handler.schema,
			RequestString:  payload.Query,
			OperationName:  payload.OperationName,
			VariableValues: payload.Variables,
			Context:        ctx,
		})
		for result := range results {
			if ctx.Err() != nil {
				return
			}
			if result.Data == nil && result.HasErrors() {
				s.writeResult(msg.ID, msgError, result.Errors)
				return
			}
			s.writeResult(msg.ID, msgNext, result)
		}
		s.write(wsMessage{ID: msg.ID, Type: msgComplete})
	}()
	return true
}

func (s *wsSession) stopOperation(id string) {
	s.mu.Lock()
	cancel, ok := s.active[id]
	if ok {
		delete(s.active, id)
	}
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

func (s *wsSession) writeResult(id, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.handler.logger.Error("marshalling ws payload failed", zap.Error(err))
		return
	}
	s.write(wsMessage{ID: id, Type: msgType, Payload: data})
}

func (s *wsSession) write(msg wsMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		s.handler.logger.Debug("websocket write failed", zap.Error(err))
	}
}

func (s *wsSession) closeWithCode(code int, reason string) {
	s.writeMu.Lock()
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), time.Now().Add(time.Second))
	s.writeMu.Unlock()
	_ = s.conn.Close()
}

func (s *wsSession) close() {
	s.mu.Lock()
	for id, cancel := range s.active {
		cancel()
		delete(s.active, id)
	}
	s.mu.Unlock()
	_ = s.conn.Close()
}
