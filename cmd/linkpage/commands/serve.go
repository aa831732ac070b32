package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/creatorhub/linkpage"
	"github.com/creatorhub/linkpage/internal/config"
	"github.com/creatorhub/linkpage/internal/server"
	"github.com/creatorhub/linkpage/internal/store"
)

// ServeCommand implements the serve command.
func ServeCommand(args []string) error {
	pageFile := ""
	var configPath string
	var port string
	var host string
	var noStore bool

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--port" || arg == "-p" {
			if i+1 < len(args) {
				port = args[i+1]
				i++
			}
		} else if arg == "--host" {
			if i+1 < len(args) {
				host = args[i+1]
				i++
			}
		} else if arg == "--config" || arg == "-c" {
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		} else if arg == "--no-store" {
			noStore = true
		} else if !strings.HasPrefix(arg, "-") {
			pageFile = arg
		}
	}

	// Load configuration
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		fmt.Printf("📝 Using config: %s\n", configPath)
	} else {
		cfg, err = config.LoadFromDir(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	// CLI flags override config
	if port != "" {
		portInt, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid port: %s", port)
		}
		cfg.Server.Port = portInt
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if pageFile == "" {
		pageFile = cfg.GetPageFile()
	}

	absPage, err := filepath.Abs(pageFile)
	if err != nil {
		return fmt.Errorf("failed to resolve page file: %w", err)
	}
	if _, err := os.Stat(absPage); os.IsNotExist(err) {
		return fmt.Errorf("page file does not exist: %s (try 'linkpage new')", pageFile)
	}

	page, warnings, err := linkpage.ParseFile(absPage)
	if err != nil {
		return err
	}
	for _, warning := range warnings {
		fmt.Println(warning.String())
	}

	// Open persistence unless disabled
	var st store.Store
	if !noStore {
		st, err = store.Open(cfg.Store.GetDriver(), cfg.Store.GetDSN())
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer st.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := st.SavePage(ctx, page); err != nil {
			cancel()
			return fmt.Errorf("failed to persist initial page: %w", err)
		}
		cancel()
		fmt.Printf("💾 Store: %s (%s)\n", cfg.Store.GetDriver(), cfg.Store.GetDSN())
	}

	srv, err := server.New(cfg, page, st, absPage)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	fmt.Printf("🔗 Editing %s\n", pageFile)
	fmt.Printf("🚀 Preview at http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
