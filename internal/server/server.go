// Package server hosts the editing session: the REST API, the live-preview
// WebSocket, and the page-file watcher.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/livetemplate/livetemplate"

	"github.com/creatorhub/linkpage"
	"github.com/creatorhub/linkpage/internal/compose"
	"github.com/creatorhub/linkpage/internal/config"
	"github.com/creatorhub/linkpage/internal/notify"
	"github.com/creatorhub/linkpage/internal/render"
	"github.com/creatorhub/linkpage/internal/store"
)

// Server wires the composer, preview hub, and HTTP surface together.
type Server struct {
	cfg      *config.Config
	composer *compose.Composer
	hub      *Hub
	shell    *livetemplate.Template
	watcher  *Watcher
	httpSrv  *http.Server
	notifier *notify.Registry

	pageFile string
	cancel   context.CancelFunc
	debug    bool
}

// New creates a Server editing the given page. st may be nil to run without
// persistence; pageFile may be empty to disable hot reload.
func New(cfg *config.Config, page *linkpage.Page, st store.Store, pageFile string) (*Server, error) {
	shell, err := newShellTemplate()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		hub:      NewHub(cfg.Server.Debug),
		shell:    shell,
		pageFile: pageFile,
		debug:    cfg.Server.Debug,
	}

	var renderOpts []render.Option
	if cfg.Preview.CompactRows {
		renderOpts = append(renderOpts, render.WithCompactRows())
	}
	if cfg.Server.Debug {
		renderOpts = append(renderOpts, render.WithDebug())
	}

	composerOpts := []compose.Option{
		compose.WithRenderer(render.New(renderOpts...)),
		compose.WithNotify(s.broadcast),
	}
	if st != nil {
		composerOpts = append(composerOpts, compose.WithHooks(store.ComposerHooks(st, page.ID)))
	}
	if cfg.Server.Debug {
		composerOpts = append(composerOpts, compose.WithDebug())
	}
	s.composer = compose.New(page, composerOpts...)

	s.notifier = notify.NewRegistry()
	for _, nc := range cfg.Notify {
		n, err := notify.NewFromConfig(nc)
		if err != nil {
			log.Printf("[Server] Skipping %s notifier: %v", nc.Type, err)
			continue
		}
		s.notifier.Register(n.Name(), n)
	}

	return s, nil
}

// notifyCapture fans a captured subscriber out to the configured notifiers.
// Delivery must not delay the HTTP response, so it runs detached.
func (s *Server) notifyCapture(sectionID, email string) {
	if s.notifier.Len() == 0 {
		return
	}
	ev := notify.Event{
		PageID:    s.composer.Page().ID,
		SectionID: sectionID,
		Email:     email,
		When:      time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.notifier.SendAll(ctx, ev); err != nil {
			log.Printf("[Server] Capture notification failed: %v", err)
		}
	}()
}

// Composer exposes the underlying composer, e.g. for the desktop bindings.
func (s *Server) Composer() *compose.Composer {
	return s.composer
}

// broadcast pushes the new render tree and the refreshed shell to every
// preview client.
func (s *Server) broadcast(tree *render.Node) {
	s.hub.Broadcast(tree)

	updates, err := s.renderShellUpdates()
	if err != nil {
		log.Printf("[Server] Shell render failed: %v", err)
		return
	}
	s.hub.BroadcastEnvelope(MessageEnvelope{Action: "shell", Data: updates})
}

// reloadPage re-parses the page file and swaps the result in.
func (s *Server) reloadPage() error {
	page, warnings, err := linkpage.ParseFile(s.pageFile)
	if err != nil {
		return err
	}
	for _, warning := range warnings {
		log.Printf("[Server] %s", warning.String())
	}
	s.composer.Replace(page)
	if s.debug {
		log.Printf("[Server] Page reloaded from %s", s.pageFile)
	}
	return nil
}

// Handler builds the HTTP handler with all routes and middleware applied.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	s.registerAPIRoutes(mux)

	var handler http.Handler = mux
	if s.cfg.IsAPIEnabled() {
		api := s.cfg.API
		handler = AuthMiddleware(api.Auth)(handler)
		limiter, _ := RateLimitMiddleware(ctx, api.GetRateLimitRPS(), api.GetRateLimitBurst(), 0)
		handler = limiter(handler)
		handler = CORSMiddleware(api.GetCORSOrigins(), api.Auth.GetHeaderName())(handler)
	}
	handler = SecurityHeadersMiddleware()(handler)
	return handler
}

// Start runs the server until ctx is cancelled or ListenAndServe fails.
func (s *Server) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.composer.Start(ctx)

	if s.pageFile != "" && s.cfg.Preview.IsHotReload() {
		watcher, err := NewWatcher(s.pageFile, s.cfg.Preview.GetDebounce(), s.reloadPage, s.debug)
		if err != nil {
			return fmt.Errorf("failed to watch page file: %w", err)
		}
		s.watcher = watcher
		s.watcher.Start()
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("[Server] Listening on http://%s", addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server and releases resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			log.Printf("[Server] Watcher stop failed: %v", err)
		}
	}
	s.hub.CloseAll()
	s.composer.Close()
	if err := s.notifier.Close(); err != nil {
		log.Printf("[Server] Notifier close failed: %v", err)
	}

	if s.httpSrv != nil {
		return s.httpSrv.Shutdown(ctx)
	}
	return nil
}

// handleIndex serves the editor page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, editorHTML, s.cfg.Title)
}

// editorHTML is the minimal editor shell. It connects to /ws, renders the
// shell and tree envelopes, and sends editing actions back.
const editorHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>%s</title>
  <style>
    body { margin: 0; font-family: system-ui, sans-serif; }
    #shell h1 { margin: 0; padding: 24px; text-align: center; }
    #preview { max-width: 680px; margin: 0 auto; padding: 16px; }
  </style>
</head>
<body>
  <div id="shell"></div>
  <div id="preview"></div>
  <script>
    const proto = location.protocol === "https:" ? "wss:" : "ws:";
    const ws = new WebSocket(proto + "//" + location.host + "/ws");
    ws.onmessage = (ev) => {
      const msg = JSON.parse(ev.data);
      if (msg.action === "tree") {
        window.dispatchEvent(new CustomEvent("linkpage:tree", { detail: msg.data }));
      } else if (msg.action === "shell") {
        window.dispatchEvent(new CustomEvent("linkpage:shell", { detail: msg.data }));
      } else if (msg.action === "error") {
        console.error("linkpage:", msg.data);
      }
    };
    window.linkpageSend = (scope, action, data) =>
      ws.send(JSON.stringify({ scope, action, data }));
  </script>
</body>
</html>
`
