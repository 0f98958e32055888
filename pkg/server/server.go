// Package server exposes map sessions over HTTP: an echarts report page, the
// JSON state, a websocket that gives each connection its own session to
// drive with commands, and Prometheus metrics.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sudorandom/co2-atlas/pkg/emissions"
	"github.com/sudorandom/co2-atlas/pkg/metrics"
	"github.com/sudorandom/co2-atlas/pkg/report"
	"github.com/sudorandom/co2-atlas/pkg/session"
)

// ErrUnknownClient is returned for a client id with no open connection.
var ErrUnknownClient = errors.New("unknown client")

// Server serves a default session and one private session per websocket
// connection. New connections start from the default session's year and
// playing state; commands only change the connection's own session.
type Server struct {
	ctrl     *session.Controller
	logger   *zap.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	report   report.Options
	interval time.Duration

	hub      *hub
	upgrader websocket.Upgrader
}

type Config struct {
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Report   report.Options
	// Interval is the playback interval of connection sessions.
	Interval time.Duration
}

// New serves ctrl as the default session. Call Close to disconnect clients.
func New(ctrl *session.Controller, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.NewRegistry()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = session.DefaultInterval
	}
	return &Server{
		ctrl:     ctrl,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		gatherer: cfg.Gatherer,
		report:   cfg.Report,
		interval: cfg.Interval,
		hub:      newHub(cfg.Logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleReport)
	r.Get("/api/state", s.handleState)
	r.Get("/ws", s.handleWebsocket)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

// Close disconnects every client and waits for their sessions to end.
func (s *Server) Close() {
	s.hub.closeAll()
	s.hub.wait()
}

func (s *Server) stateMessage(d emissions.Data, st emissions.State) ([]byte, error) {
	v := NewView(d, st)
	return json.Marshal(Message{Type: "state", State: &v})
}

// sessionFor returns the controller named by the request's client parameter,
// or the default session.
func (s *Server) sessionFor(r *http.Request) (*session.Controller, error) {
	id := r.URL.Query().Get("client")
	if id == "" {
		return s.ctrl, nil
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClient, id)
	}
	c, ok := s.hub.get(uid)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClient, id)
	}
	return c.ctrl, nil
}

func (s *Server) current(r *http.Request) (emissions.Data, emissions.State, error) {
	ctrl, err := s.sessionFor(r)
	if err != nil {
		return emissions.Data{}, emissions.State{}, err
	}
	return snapshot(ctrl)
}

func snapshot(ctrl *session.Controller) (emissions.Data, emissions.State, error) {
	d, err := ctrl.Data()
	if err != nil {
		return d, emissions.State{}, err
	}
	st, err := ctrl.State()
	return d, st, err
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrNotLoaded):
		status = http.StatusServiceUnavailable
	case errors.Is(err, ErrUnknownClient):
		status = http.StatusNotFound
	case errors.Is(err, emissions.ErrYearOutOfRange), errors.Is(err, ErrUnknownCommand):
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	d, st, err := s.current(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := report.Render(&buf, d, st, s.report); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	d, st, err := s.current(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(NewView(d, st))
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	d, base, err := snapshot(s.ctrl)
	if err != nil {
		s.writeError(w, err)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	id := uuid.New()
	logger := s.logger.With(zap.String("client", id.String()))
	c := &client{
		id:   id,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		ctrl: session.NewController(s.interval, logger, s.metrics),
	}
	n, ok := s.hub.add(c)
	if !ok {
		c.ctrl.Close()
		_ = conn.Close()
		return
	}
	defer s.hub.release()
	s.setClients(n)
	logger.Info("client connected", zap.Int("clients", n))
	go c.writePump(s.logger)

	hello, _ := json.Marshal(Message{Type: "hello", ClientID: id.String()})
	s.hub.sendTo(c, hello)
	// Listeners run with the session locked; sendTo never blocks.
	c.ctrl.Subscribe(func(st emissions.State) {
		msg, err := s.stateMessage(d, st)
		if err != nil {
			logger.Error("error encoding state", zap.Error(err))
			return
		}
		s.hub.sendTo(c, msg)
	})
	if err := s.startSession(c.ctrl, d, base); err != nil {
		logger.Warn("error starting session", zap.Error(err))
	}

	s.readPump(c)

	c.ctrl.Close()
	n = s.hub.remove(c)
	s.setClients(n)
	logger.Info("client disconnected", zap.Int("clients", n))
}

// startSession loads d into ctrl at the default session's year and resumes
// playback when the default session is playing.
func (s *Server) startSession(ctrl *session.Controller, d emissions.Data, base emissions.State) error {
	if _, err := ctrl.Load(d, base.Year); err != nil {
		return err
	}
	if base.Playing {
		if _, err := ctrl.Dispatch(emissions.Play{}); err != nil {
			return err
		}
	}
	return nil
}

// readPump applies client commands until the connection fails.
func (s *Server) readPump(c *client) {
	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("read failed", zap.String("client", c.id.String()), zap.Error(err))
			}
			return
		}
		var cmd Command
		err = json.Unmarshal(data, &cmd)
		if err == nil {
			err = apply(c.ctrl, cmd)
		}
		if err != nil {
			msg, _ := json.Marshal(Message{Type: "error", Error: err.Error()})
			s.hub.sendTo(c, msg)
		}
	}
}

func apply(ctrl *session.Controller, cmd Command) error {
	ev, err := cmd.Event()
	if err != nil {
		return err
	}
	if y, ok := ev.(emissions.SetYear); ok {
		_, err = ctrl.SetYear(y.Year)
		return err
	}
	_, err = ctrl.Dispatch(ev)
	return err
}

func (s *Server) setClients(n int) {
	if s.metrics != nil {
		s.metrics.Clients.Set(float64(n))
	}
}
