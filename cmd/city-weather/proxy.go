package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ngmaloney/city-weather-terminal/internal/logging"
	"github.com/ngmaloney/city-weather-terminal/internal/proxy"
	"github.com/spf13/cobra"
)

var proxyAddr string

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Serve a local /api reverse proxy to the catalog host",
	Long: `proxy forwards every request under /api to the configured catalog host,
rewriting the Host header. Point catalog_base_url at it during development.`,
	Args: cobra.NoArgs,
	RunE: runProxy,
}

func init() {
	proxyCmd.Flags().StringVar(&proxyAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(proxyCmd)
}

func runProxy(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.cfg.ProxyAddr
	if proxyAddr != "" {
		addr = proxyAddr
	}

	// No UI runs alongside the proxy, so it logs to stderr
	logger := logging.New(os.Stderr, a.cfg.LogLevel)

	server, err := proxy.NewServer(addr, a.cfg.ProxyTarget, logger)
	if err != nil {
		return err
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("proxy listening", "addr", addr, "target", a.cfg.ProxyTarget)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-stopChan:
		logger.Info("shutting down proxy")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
