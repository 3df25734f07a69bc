// Command Digiware-Monopoly runs the DigiWare Monopoly board game server.
//
// It supports four commands:
//  1. "serve" (default) – HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – MCP stdio server backed by an existing API or an internal one
//  3. "play" – drives one session from the serial controller, or a scripted queue in test mode
//  4. "ports" – lists serial devices the controller could use
//
// Flags control host/port, config directory, debug logging, optional ngrok
// tunneling, and the serial controller connection. Every flag can also be set
// from the environment or a .env file.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gouripri/Digiware-Monopoly/api"
	"github.com/gouripri/Digiware-Monopoly/game/config"
	"github.com/gouripri/Digiware-Monopoly/game/engine"
	"github.com/gouripri/Digiware-Monopoly/game/loop"
	"github.com/gouripri/Digiware-Monopoly/game/service"
	"github.com/gouripri/Digiware-Monopoly/game/session"
	"github.com/gouripri/Digiware-Monopoly/transport/controller"
	"github.com/gouripri/Digiware-Monopoly/transport/mcp"
	"github.com/gouripri/Digiware-Monopoly/transport/websocket"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "DigiWare Monopoly Server"
)

const (
	sessionCleanupInterval = time.Hour
	sessionMaxAge          = 24 * time.Hour
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatalf("%s: %v", AppName, err)
	}
}

// newApp builds the command tree. Root flags are inherited by every command.
func newApp() *cli.Command {
	return &cli.Command{
		Name:           "monopoly",
		Usage:          AppName,
		Version:        Version,
		DefaultCommand: "serve",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing board configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"server", "http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
				Flags:   ngrokFlags(),
				Action:  runServe,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "api-url",
						Value:   "http://localhost:8080",
						Usage:   "External API to use when it is reachable",
						Sources: cli.EnvVars("API_URL"),
					},
				},
				Action: runStdioMCP,
			},
			{
				Name:   "play",
				Usage:  "Run the control loop for one session against the serial controller",
				Flags:  playFlags(),
				Action: runPlay,
			},
			{
				Name:   "ports",
				Usage:  "List serial devices",
				Action: runPorts,
			},
		},
	}
}

func ngrokFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "ngrok",
			Usage:   "Enable ngrok tunnel",
			Sources: cli.EnvVars("NGROK_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "ngrok-auth",
			Usage:   "Ngrok auth token",
			Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "ngrok-domain",
			Usage:   "Custom ngrok domain (optional)",
			Sources: cli.EnvVars("NGROK_DOMAIN"),
		},
	}
}

func playFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "serial-port",
			Usage:   "Serial device; empty auto-detects",
			Sources: cli.EnvVars("SERIAL_PORT"),
		},
		&cli.IntFlag{
			Name:    "baud",
			Value:   controller.DefaultBaudRate,
			Usage:   "Serial baud rate",
			Sources: cli.EnvVars("SERIAL_BAUD"),
		},
		&cli.StringSliceFlag{
			Name:    "hint",
			Value:   controller.DefaultHints,
			Usage:   "Port description substrings used by auto-detection",
			Sources: cli.EnvVars("SERIAL_HINT"),
		},
		&cli.BoolFlag{
			Name:    "test-mode",
			Usage:   "Read actions from --script instead of a device",
			Sources: cli.EnvVars("TEST_MODE"),
		},
		&cli.StringSliceFlag{
			Name:  "script",
			Usage: "Lines queued in test mode, e.g. --script ROLL --script P1,BUY",
		},
		&cli.IntFlag{
			Name:    "players",
			Value:   service.DefaultPlayerCount,
			Usage:   fmt.Sprintf("Number of players (1-%d)", engine.MaxPlayers),
			Sources: cli.EnvVars("PLAYERS"),
		},
		&cli.StringFlag{
			Name:  "board",
			Usage: "Board configuration id; empty uses the default",
		},
		&cli.DurationFlag{
			Name:  "debounce",
			Value: controller.DefaultDebounce,
			Usage: "Minimum gap between accepted controller lines",
		},
		&cli.DurationFlag{
			Name:  "tick",
			Value: loop.DefaultTick,
			Usage: "Control loop tick interval",
		},
	}
}

// initializeServices wires session/config managers and the game service
func initializeServices(configDir string) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()
	return service.NewGameService(sessionManager, configManager), sessionManager, nil
}

// newRouter combines the REST API, WebSocket hub and the /mcp endpoint.
// The MCP tools call back into the API at baseURL.
func newRouter(gameService service.GameService, hub *websocket.Hub, baseURL string) http.Handler {
	apiServer := api.NewServer(gameService, hub)
	mcpClient := mcp.NewClient(baseURL)

	router := apiServer.Router()
	router.Handle("/mcp", server.NewStreamableHTTPServer(mcpClient.GetMCPServer(), server.WithStateLess(true)))
	return router
}

func listenAddr(cmd *cli.Command) string {
	return fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
}

// runServe starts the HTTP server and, if enabled, an ngrok tunnel serving the same handler
func runServe(ctx context.Context, cmd *cli.Command) error {
	log.Printf("Starting %s v%s (mode: serve)", AppName, Version)

	gameService, sessions, err := initializeServices(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go sessions.RunCleanup(ctx, sessionCleanupInterval, sessionMaxAge)

	hub := websocket.NewHub()
	go hub.Run(ctx)

	addr := listenAddr(cmd)
	handler := newRouter(gameService, hub, "http://"+addr)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	errc := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runTunnel(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), handler)
		}()
	}

	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err = <-errc:
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if serr := httpServer.Shutdown(shutdownCtx); serr != nil {
		log.Printf("HTTP server shutdown error: %v", serr)
	}

	wg.Wait()
	log.Println("Server stopped")
	return err
}

// runTunnel serves handler through ngrok until ctx is done
func runTunnel(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// runStdioMCP serves MCP over stdio. It reuses the API at --api-url when it answers,
// otherwise it starts an internal API on a random loopback port.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	baseURL := cmd.String("api-url")
	log.Printf("Checking for external API server at %s...", baseURL)

	if !apiReachable(ctx, baseURL) {
		log.Printf("No external API server found, starting internal HTTP server")

		gameService, _, err := initializeServices(cmd.String("config-dir"))
		if err != nil {
			return err
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub()
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
		log.Printf("Internal HTTP server on %s for MCP stdio", baseURL)
	} else {
		log.Printf("External API server found at %s, using it for MCP", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Println("MCP stdio server ready")
	return server.ServeStdio(mcpClient.GetMCPServer())
}

func apiReachable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// runPlay creates a session and runs the control loop for it. The API and
// WebSocket stay up so renderers can follow the game.
func runPlay(ctx context.Context, cmd *cli.Command) error {
	players := cmd.Int("players")
	if players < 1 || players > engine.MaxPlayers {
		return fmt.Errorf("players must be between 1 and %d, got %d", engine.MaxPlayers, players)
	}

	gameService, _, err := initializeServices(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	info, err := gameService.CreateSession(ctx, cmd.String("board"), engine.DefaultPlayerSpecs(players))
	if err != nil {
		return err
	}

	ctrl := controller.New(controller.Config{
		PortName: cmd.String("serial-port"),
		BaudRate: cmd.Int("baud"),
		Hints:    cmd.StringSlice("hint"),
		Debounce: cmd.Duration("debounce"),
		TestMode: cmd.Bool("test-mode"),
	})
	if err := ctrl.Connect(ctx); err != nil {
		log.Printf("[INPUT] %v; running without a controller", err)
	} else if ctrl.Connected() {
		log.Printf("[INPUT] controller on %s for session %s", ctrl.PortName(), info.ID)
	}
	defer ctrl.Close()

	if cmd.Bool("test-mode") {
		ctrl.Queue(cmd.StringSlice("script")...)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := websocket.NewHub()
	go hub.Run(ctx)

	addr := listenAddr(cmd)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: newRouter(gameService, hub, "http://"+addr),
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("HTTP server error: %v", err)
		}
	}()
	defer httpServer.Close()

	log.Printf("Playing session %s with %d players", info.ID, players)
	log.Printf("WebSocket: ws://%s/ws?session=%s", addr, info.ID)

	l := loop.New(gameService, ctrl, info.ID,
		loop.WithTick(cmd.Duration("tick")),
		loop.WithBroadcaster(hub),
	)
	return l.Run(ctx)
}

func runPorts(ctx context.Context, cmd *cli.Command) error {
	ports, err := controller.ListPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found")
		return nil
	}

	for _, p := range ports {
		usb := ""
		if p.IsUSB {
			usb = fmt.Sprintf(" [USB %s:%s]", p.VID, p.PID)
		}
		fmt.Printf("%s\t%s%s\n", p.Name, p.Description, usb)
	}
	return nil
}
