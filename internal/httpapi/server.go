package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dobhashi/dobhashi/internal/config"
	"github.com/dobhashi/dobhashi/internal/observability"
	"github.com/dobhashi/dobhashi/internal/protocol"
	"github.com/dobhashi/dobhashi/internal/relay"
)

// Relay owns the protocol state machine for one connection.
type Relay interface {
	RunConnection(ctx context.Context, connID string, inbound <-chan any, sender relay.Sender)
}

type Server struct {
	cfg      config.Config
	relay    Relay
	metrics  *observability.Metrics
	upgrader websocket.Upgrader
}

func New(cfg config.Config, rl Relay, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:     cfg,
		relay:   rl,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Default: only allow browser websocket connections from the
				// same origin. This prevents other websites from driving the
				// user's mic if the relay is ever exposed beyond localhost.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Get("/ws", s.handleWS)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"engine_provider": s.cfg.EngineProvider,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

// chanSender bridges the relay to the per-connection writer goroutine. Send
// never blocks; a saturated queue means the peer is not keeping up and the
// message is dropped.
type chanSender struct {
	out chan any
}

func (c *chanSender) Send(msg any) bool {
	select {
	case c.out <- msg:
		return true
	default:
		return false
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	s.metrics.RelayEvents.WithLabelValues("ws_connected").Inc()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	inbound := make(chan any, 256)
	outbound := make(chan any, 256)
	sender := &chanSender{out: outbound}

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		s.relay.RunConnection(ctx, connID, inbound, sender)
	}()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-outbound:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(msg); err != nil {
					cancel()
					return
				}
				s.metrics.WSMessages.WithLabelValues("outbound", messageTypeOf(msg)).Inc()
			}
		}
	}()

	// Audio clips arrive base64-encoded inside a JSON frame; a 60s stereo WAV
	// can run past 10MB on the wire.
	conn.SetReadLimit(16 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

readLoop:
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))

		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			sender.Send(protocol.ErrorReply{Error: err.Error()})
			continue
		}
		s.metrics.WSMessages.WithLabelValues("inbound", messageTypeOf(parsed)).Inc()

		select {
		case <-ctx.Done():
			break readLoop
		case inbound <- parsed:
		}
	}

	cancel()
	close(inbound)
	<-runDone
	<-writerDone
	s.metrics.RelayEvents.WithLabelValues("ws_disconnected").Inc()
}

func messageTypeOf(v any) string {
	switch v.(type) {
	case protocol.LanguageSelect:
		return "language_select"
	case protocol.AudioMessage:
		return "audio"
	case protocol.StatusReply:
		return "status"
	case protocol.ErrorReply:
		return "error"
	case protocol.TranslatedAudio:
		return "translated_audio"
	default:
		return "unknown"
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
