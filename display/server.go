package display

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"image"
	"image/png"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/setanarut/toneadjust"
)

// Server publishes the composite over HTTP and blocks in Render until ctx
// is canceled, the way a desktop viewer blocks until its window closes.
//
// Routes: / (viewer page), /image.png, /ws (pushes the frame as JSON),
// /health.
type Server struct {
	Addr     string
	Composer Composer

	ctx      context.Context
	mu       sync.RWMutex
	frame    []byte
	label    string
	size     image.Point
	clients  map[*websocket.Conn]bool
	upgrader websocket.Upgrader
}

type framePayload struct {
	Label string `json:"label"`
	PNG   string `json:"png"`
	W     int    `json:"w"`
	H     int    `json:"h"`
}

func NewServer(ctx context.Context, addr string, c Composer) *Server {
	return &Server{
		Addr:     addr,
		Composer: c,
		ctx:      ctx,
		clients:  map[*websocket.Conn]bool{},
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

func (s *Server) Render(original, adjusted *toneadjust.Image, label string) error {
	if err := s.publish(original, adjusted, label); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.Addr, err)
	}
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.Composer.Logger.Info().Str("addr", "http://"+ln.Addr().String()).Msg("preview server started; interrupt to exit")

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.closeClients()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.Composer.Logger.Info().Msg("preview server stopped")
	return nil
}

// publish composes and stores the frame and pushes it to connected clients.
func (s *Server) publish(original, adjusted *toneadjust.Image, label string) error {
	canvas := s.Composer.Compose(original, adjusted, label)
	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	b := canvas.Bounds()

	s.mu.Lock()
	s.frame = buf.Bytes()
	s.label = label
	s.size = b.Size()
	s.mu.Unlock()

	s.broadcast(framePayload{
		Label: label,
		PNG:   base64.StdEncoding.EncodeToString(buf.Bytes()),
		W:     b.Dx(),
		H:     b.Dy(),
	})
	return nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/image.png", s.handleImage)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

var indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>{{.}}</title></head>
<body style="margin:0;background:#fff">
<img id="frame" src="/image.png" alt="{{.}}" style="max-width:100%">
<script>
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onmessage = (ev) => {
  const f = JSON.parse(ev.data);
  document.title = f.label;
  document.getElementById("frame").src = "data:image/png;base64," + f.png;
};
</script>
</body></html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.mu.RLock()
	label := s.label
	s.mu.RUnlock()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexTmpl.Execute(w, label)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	frame := s.frame
	s.mu.RUnlock()
	if frame == nil {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(frame)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ready := s.frame != nil
	s.mu.RUnlock()
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("starting"))
		return
	}
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	// Writes to a conn are serialized through s.mu.
	s.mu.Lock()
	s.clients[conn] = true
	if s.frame != nil {
		_ = conn.WriteJSON(framePayload{
			Label: s.label,
			PNG:   base64.StdEncoding.EncodeToString(s.frame),
			W:     s.size.X,
			H:     s.size.Y,
		})
	}
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) broadcast(p framePayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteJSON(p); err != nil {
			s.Composer.Logger.Debug().Err(err).Msg("websocket write failed")
		}
	}
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		delete(s.clients, conn)
	}
}
