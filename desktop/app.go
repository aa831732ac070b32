package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/creatorhub/linkpage"
	"github.com/creatorhub/linkpage/internal/config"
	"github.com/creatorhub/linkpage/internal/server"
	"github.com/creatorhub/linkpage/internal/store"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// App struct holds the application state.
type App struct {
	ctx        context.Context
	server     *server.Server
	store      store.Store
	serverPort int
	pageFile   string
	mu         sync.RWMutex
}

// NewApp creates a new App application struct.
func NewApp() *App {
	return &App{}
}

// startup is called when the app starts.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// shutdown is called when the app is closing.
func (a *App) shutdown(ctx context.Context) {
	a.stopServer()
}

// stopServer stops the current preview server if running.
func (a *App) stopServer() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.server.Shutdown(ctx); err != nil {
			fmt.Printf("Server shutdown error: %v\n", err)
		}
		cancel()
		a.server = nil
	}
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
	a.serverPort = 0
	a.pageFile = ""
}

// OpenFile opens a file dialog to select a page file or directory.
func (a *App) OpenFile() (string, error) {
	selection, err := runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Open Page File or Directory",
		Filters: []runtime.FileFilter{
			{
				DisplayName: "Page Files (*.yaml, *.yml)",
				Pattern:     "*.yaml;*.yml",
			},
			{
				DisplayName: "All Files (*.*)",
				Pattern:     "*.*",
			},
		},
	})
	if err != nil {
		return "", err
	}

	if selection == "" {
		return "", nil
	}

	// Check if it's a file or directory
	info, err := os.Stat(selection)
	if err != nil {
		return "", err
	}

	if info.IsDir() {
		if err := a.loadDirectory(selection); err != nil {
			return "", err
		}
		return selection, nil
	}

	if err := a.loadPageFile(selection); err != nil {
		return "", err
	}
	return selection, nil
}

// OpenDirectory opens a directory dialog and loads the page file it contains.
func (a *App) OpenDirectory() (string, error) {
	selection, err := runtime.OpenDirectoryDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Open Page Directory",
	})
	if err != nil {
		return "", err
	}

	if selection == "" {
		return "", nil
	}

	if err := a.loadDirectory(selection); err != nil {
		return "", err
	}

	return selection, nil
}

// loadDirectory resolves the configured page file inside dir and loads it.
func (a *App) loadDirectory(dir string) error {
	cfg, err := config.LoadFromDir(dir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return a.loadPageFile(filepath.Join(dir, cfg.GetPageFile()))
}

// loadPageFile parses the page and starts the preview server for it.
func (a *App) loadPageFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	// Stop existing server if running
	a.stopServer()

	// Load configuration from the page file's directory
	cfg, err := config.LoadFromDir(filepath.Dir(absPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Desktop always hot reloads on save
	hotReload := true
	cfg.Preview.HotReload = &hotReload

	// Parse the page
	page, warnings, err := linkpage.ParseFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to parse page: %w", err)
	}
	for _, w := range warnings {
		fmt.Printf("Warning: %s\n", w)
	}

	// Open the store; the preview still works without persistence
	st, err := store.Open(cfg.Store.GetDriver(), storeDSN(cfg, filepath.Dir(absPath)))
	if err != nil {
		fmt.Printf("Store unavailable, edits will not persist: %v\n", err)
		st = nil
	}
	if st != nil {
		saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := st.SavePage(saveCtx, page); err != nil {
			fmt.Printf("Initial page save failed: %v\n", err)
		}
		cancel()
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to find free port: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = port

	srv, err := server.New(cfg, page, st, absPath)
	if err != nil {
		if st != nil {
			st.Close()
		}
		return fmt.Errorf("failed to create server: %w", err)
	}

	go func() {
		if err := srv.Start(context.Background()); err != nil {
			fmt.Printf("HTTP server error: %v\n", err)
		}
	}()

	// Store references
	a.mu.Lock()
	a.server = srv
	a.store = st
	a.serverPort = port
	a.pageFile = absPath
	a.mu.Unlock()

	// Update window title
	runtime.WindowSetTitle(a.ctx, fmt.Sprintf("Linkpage - %s", filepath.Base(absPath)))

	// Navigate to the local server
	serverURL := fmt.Sprintf("http://127.0.0.1:%d/", port)
	runtime.EventsEmit(a.ctx, "navigate", serverURL)

	return nil
}

// storeDSN anchors a relative sqlite path to the page's directory so the
// database lands next to the page regardless of the app's working directory.
func storeDSN(cfg *config.Config, dir string) string {
	dsn := cfg.Store.GetDSN()
	if cfg.Store.GetDriver() == "sqlite" && !filepath.IsAbs(dsn) {
		return filepath.Join(dir, dsn)
	}
	return dsn
}

// GetPageFile returns the currently loaded page file.
func (a *App) GetPageFile() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pageFile
}

// GetServerURL returns the URL of the running server, or empty string if not running.
func (a *App) GetServerURL() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.serverPort == 0 {
		return ""
	}
	return fmt.Sprintf("http://127.0.0.1:%d/", a.serverPort)
}

// GetHandler returns the HTTP handler for the embedded asset server.
// When a page is loaded it redirects to the preview server, otherwise
// it serves the welcome screen.
func (a *App) GetHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.mu.RLock()
		port := a.serverPort
		a.mu.RUnlock()

		if port != 0 {
			http.Redirect(w, r, fmt.Sprintf("http://127.0.0.1:%d/", port), http.StatusTemporaryRedirect)
			return
		}

		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(welcomeHTML))
	})
}

const welcomeHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8"/>
    <meta content="width=device-width, initial-scale=1.0" name="viewport"/>
    <title>Linkpage Desktop</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            background: linear-gradient(135deg, #1a1a2e 0%, #16213e 100%);
            color: #fff;
            min-height: 100vh;
            display: flex;
            flex-direction: column;
            align-items: center;
            justify-content: center;
            padding: 2rem;
        }
        .container {
            text-align: center;
            max-width: 600px;
        }
        h1 {
            font-size: 2.5rem;
            margin-bottom: 1rem;
            background: linear-gradient(90deg, #f472b6, #7c3aed);
            -webkit-background-clip: text;
            -webkit-text-fill-color: transparent;
            background-clip: text;
        }
        p {
            color: #94a3b8;
            font-size: 1.1rem;
            line-height: 1.6;
            margin-bottom: 2rem;
        }
        .actions {
            display: flex;
            gap: 1rem;
            justify-content: center;
            flex-wrap: wrap;
        }
        button {
            background: linear-gradient(135deg, #7c3aed 0%, #f472b6 100%);
            border: none;
            color: white;
            padding: 0.875rem 1.75rem;
            font-size: 1rem;
            border-radius: 8px;
            cursor: pointer;
            transition: transform 0.2s, box-shadow 0.2s;
        }
        button:hover {
            transform: translateY(-2px);
            box-shadow: 0 4px 20px rgba(124, 58, 237, 0.4);
        }
        button:active {
            transform: translateY(0);
        }
        .keyboard-hint {
            margin-top: 2rem;
            color: #64748b;
            font-size: 0.875rem;
        }
        kbd {
            background: #334155;
            border-radius: 4px;
            padding: 0.25rem 0.5rem;
            font-family: monospace;
        }
        #status {
            margin-top: 1rem;
            font-size: 0.875rem;
            min-height: 1.5em;
        }
        .error { color: #ef4444; }
        .success { color: #22c55e; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Linkpage Desktop</h1>
        <p>Open a page file to edit your link-in-bio page with a live preview.</p>
        <div class="actions">
            <button id="openFile">Open Page</button>
            <button id="openDir">Open Directory</button>
        </div>
        <p class="keyboard-hint">
            <kbd>Cmd+O</kbd> / <kbd>Ctrl+O</kbd> to open
        </p>
        <p id="status"></p>
    </div>
    <script>
        function initApp() {
            const statusEl = document.getElementById('status');

            function showStatus(message, type) {
                statusEl.textContent = message;
                statusEl.className = type || '';
            }

            showStatus('Ready', 'success');

            document.getElementById('openFile').addEventListener('click', async function() {
                try {
                    showStatus('Opening file dialog...');
                    const path = await window.go.main.App.OpenFile();
                    if (path) {
                        showStatus('Loading ' + path + '...', 'success');
                    } else {
                        showStatus('Ready', 'success');
                    }
                } catch (err) {
                    showStatus('Error: ' + err, 'error');
                }
            });

            document.getElementById('openDir').addEventListener('click', async function() {
                try {
                    showStatus('Opening directory dialog...');
                    const dir = await window.go.main.App.OpenDirectory();
                    if (dir) {
                        showStatus('Loading ' + dir + '...', 'success');
                        // Check server URL after a short delay
                        setTimeout(async () => {
                            const url = await window.go.main.App.GetServerURL();
                            if (url) {
                                showStatus('Preview running at: ' + url + ' - Navigating...', 'success');
                                window.location.href = url;
                            } else {
                                showStatus('Preview not started', 'error');
                            }
                        }, 500);
                    } else {
                        showStatus('Ready', 'success');
                    }
                } catch (err) {
                    showStatus('Error: ' + err, 'error');
                }
            });
        }

        // Wait for Wails runtime to be available
        function waitForWails() {
            if (window.go && window.runtime) {
                initApp();
                // Listen for navigate event from Go
                window.runtime.EventsOn('navigate', function(url) {
                    console.log('Navigating to:', url);
                    window.location.href = url;
                });
            } else {
                setTimeout(waitForWails, 50);
            }
        }

        if (document.readyState === 'loading') {
            document.addEventListener('DOMContentLoaded', waitForWails);
        } else {
            waitForWails();
        }
    </script>
</body>
</html>`
