package cmd

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/freekieb7/hearth/config"
	"github.com/freekieb7/hearth/http"
	"github.com/freekieb7/hearth/log"
	"github.com/freekieb7/hearth/telemetry"
	"github.com/freekieb7/hearth/transport"
)

const shutdownTimeout = 10 * time.Second

var (
	serveAddr       string
	serveTransport  string
	serveConcurrent bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the server until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if flags.Changed("addr") {
			cfg.Server.Addr = serveAddr
		}
		if flags.Changed("transport") {
			cfg.Server.Transport = serveTransport
		}
		if flags.Changed("concurrent") {
			cfg.Server.Concurrent = serveConcurrent
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config:\n%w", err)
		}
		return runServer(cmd.Context(), cfg, nil)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", http.DefaultAddr, "address to listen on")
	serveCmd.Flags().StringVar(&serveTransport, "transport", config.TransportTCP, "transport to listen with: tcp or quic")
	serveCmd.Flags().BoolVar(&serveConcurrent, "concurrent", false, "serve connections in parallel")
	rootCmd.AddCommand(serveCmd)
}

// newRouter registers the built-in routes, then the configured ones, which
// win on conflict.
func newRouter(cfg *config.Config) *http.Router {
	router := http.NewRouter().
		Use(
			http.RecoverMiddleware(slog.Default()),
			http.HeaderMiddleware("Server", "hearth/"+Version),
		).
		Get("/health", http.JSON(map[string]string{"status": "ok"})).
		Post("/post", http.HandlerFunc(hello)).
		Post("/", http.TextFunc(func(*http.Request) string { return "Hello, POST" })).
		Post("/echo", http.HandlerFunc(echo))
	cfg.Register(router)
	return router
}

func hello(*http.Request) *http.Response {
	return http.NewResponse().WithBody([]byte("Hello, World"))
}

func echo(req *http.Request) *http.Response {
	res := http.NewResponse().WithBody(req.Body())
	if ct, ok := req.Header(http.HeaderContentType); ok {
		res.WithHeader(http.HeaderContentType, ct)
	}
	return res
}

func listen(ctx context.Context, cfg *config.Config) (net.Listener, error) {
	if cfg.Server.Transport != config.TransportQUIC {
		return transport.ListenTCP(ctx, cfg.Server.Addr)
	}

	var tlsConfig *tls.Config
	var err error
	if cfg.Server.TLS.CertFile != "" {
		tlsConfig, err = transport.LoadTLSConfig(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
	} else {
		log.Warnf("No TLS certificate configured, using a self-signed one")
		host, _, _ := net.SplitHostPort(cfg.Server.Addr)
		tlsConfig, err = transport.SelfSignedTLSConfig(host, "localhost")
	}
	if err != nil {
		return nil, err
	}
	return transport.ListenQUIC(cfg.Server.Addr, tlsConfig)
}

// runServer serves until ctx is done. When ready is non-nil the bound address
// is sent on it once the listener is up.
func runServer(ctx context.Context, cfg *config.Config, ready chan<- net.Addr) error {
	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.TelemetryConfig())
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			slog.Warn("Failed to flush telemetry", slog.Any("error", err))
		}
	}()

	router := newRouter(cfg)
	srv := http.NewServer("hearth", router)
	cfg.Apply(srv)
	srv.Logger = slog.Default()

	listener, err := listen(ctx, cfg)
	if err != nil {
		return err
	}

	log.Infof("Starting %s server on %s", cfg.Server.Transport, listener.Addr())
	for _, route := range router.Routes() {
		log.Debugf("Route %s %s", route.Method, route.Path)
	}
	if ready != nil {
		ready <- listener.Addr()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(gctx, listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Infof("Shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
