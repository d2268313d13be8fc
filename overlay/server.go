package overlay

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

//go:embed static/index.html
var indexHTML []byte

// Server hosts the overlay page, its websocket and the metrics endpoint.
type Server struct {
	Hub     *Hub
	Metrics *Metrics

	srv *http.Server
	ln  net.Listener
}

func NewServer(addr string, hub *Hub, metrics *Metrics) *Server {
	s := &Server{Hub: hub, Metrics: metrics}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler routes "/", "/ws" and "/metrics".
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", serveHome)
	mux.HandleFunc("/ws", s.Hub.ServeWS)
	if s.Metrics != nil {
		mux.Handle("/metrics", s.Metrics.Handler())
	}
	return mux
}

func serveHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// Start listens on the configured address and serves in the background.
// Listen errors are returned; later serve errors are logged.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("overlay listen %s: %w", s.srv.Addr, err)
	}
	s.ln = ln
	logger.Printf("Overlay on http://%s", ln.Addr())
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Println("serve error:", err)
		}
	}()
	return nil
}

// Addr is the bound address after Start.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.srv.Addr
	}
	return s.ln.Addr().String()
}

// Shutdown closes client connections and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Hub.Close()
	return s.srv.Shutdown(ctx)
}
