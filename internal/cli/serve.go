package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/amterp/ra"
	"github.com/amterp/webslide/internal/api"
)

func registerServe(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("serve")
	cmd.SetDescription("Start the browser editor")

	ctx.ServePort, _ = ra.NewInt("port").
		SetOptional(true).
		SetDefault(0).
		SetShort("p").
		SetFlagOnly(true).
		SetUsage("Port to listen on, defaults to [server] port (will try incrementally if in use)").
		Register(cmd)

	ctx.ServeNoOpen, _ = ra.NewBool("no-open").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Don't open browser automatically").
		Register(cmd)

	ctx.ServeUsed, _ = parent.RegisterCmd(cmd)
}

func runServe(port int, noOpen bool) {
	app := mustApp(false)

	if port <= 0 {
		port = app.Config.Server.Port
	}

	handler := api.NewHandler(app.State, app.Config)

	// Find an available port starting from the requested one
	serverCfg := app.Config.Server
	serverCfg.Port = findAvailablePort(port)

	server := api.NewServer(handler, serverCfg, app.WatchStore())

	url := fmt.Sprintf("http://localhost:%d", serverCfg.Port)
	fmt.Printf("WebSlide editor running at %s\n", RenderURL(url))
	fmt.Println("Press Ctrl+C to stop")

	if !noOpen {
		openBrowser(url)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	var err error
	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = server.Shutdown(shutdownCtx)
		cancel()
		fmt.Println()
		PrintInfo("Server stopped")
	}

	finish(app, err)
}

// findAvailablePort tries ports starting from startPort until it finds one that's available.
func findAvailablePort(startPort int) int {
	maxAttempts := 100
	for i := 0; i < maxAttempts; i++ {
		port := startPort + i
		if isPortAvailable(port) {
			return port
		}
	}
	// If we couldn't find a port after maxAttempts, return the original and let it fail naturally
	return startPort
}

// isPortAvailable checks if a port is available by attempting to listen on it.
func isPortAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	listener.Close()
	return true
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	}
	if cmd == nil {
		return
	}
	if err := cmd.Start(); err != nil {
		PrintWarning("Could not open a browser: %v", err)
	}
}
