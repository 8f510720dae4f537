// Package daemon wires the kiosk services together: the HTTP surface
// for readers, displays, and the management UI, the IPC socket for the
// CLI, and the single-instance lock.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"kiosk/internal/assets"
	"kiosk/internal/cardmap"
	"kiosk/internal/config"
	"kiosk/internal/coordinator"
	"kiosk/internal/ipc"
	"kiosk/internal/ledger"
	"kiosk/internal/logging"
)

// Daemon owns the long-running kiosk services and enforces
// single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger

	ledger  *ledger.Store
	mapping *cardmap.Store
	library *assets.Library
	coord   *coordinator.Coordinator

	lockPath string
	lock     *flock.Flock

	httpServer *http.Server
	httpAddr   string
	ipcServer  *ipc.Server
	reader     *readerWatch

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New constructs a daemon and opens its stores.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := preflight(cfg); err != nil {
		return nil, err
	}

	ledgerStore, err := ledger.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	mappingStore, err := cardmap.OpenStore(cfg.Kiosk.MappingFile)
	if err != nil {
		_ = ledgerStore.Close()
		return nil, fmt.Errorf("open mapping store: %w", err)
	}
	library, err := assets.NewLibrary(cfg.Paths.AssetsDir)
	if err != nil {
		_ = ledgerStore.Close()
		return nil, fmt.Errorf("open asset library: %w", err)
	}

	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		ledger:   ledgerStore,
		mapping:  mappingStore,
		library:  library,
		coord:    coordinator.New(cfg, logger, ledgerStore, mappingStore, library, nil),
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}, nil
}

// Coordinator exposes the assembled coordinator, mainly for tests.
func (d *Daemon) Coordinator() *coordinator.Coordinator {
	return d.coord
}

// HTTPAddr returns the bound listen address once Start has succeeded.
func (d *Daemon) HTTPAddr() string {
	return d.httpAddr
}

// Start acquires the instance lock and brings up the HTTP and IPC
// servers. It returns once both are listening.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another kiosk daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	d.reader = newReaderWatch(d.cfg, d.logger)
	d.reader.Start(d.ctx)

	listener, err := net.Listen("tcp", d.cfg.Paths.APIBind)
	if err != nil {
		d.teardown()
		return fmt.Errorf("listen on %s: %w", d.cfg.Paths.APIBind, err)
	}
	d.httpAddr = listener.Addr().String()

	router := newRouter(d.cfg, d.coord, d.logger, d.reader)
	d.httpServer = &http.Server{
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if serveErr := d.httpServer.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			d.logger.Error("http server stopped",
				logging.Error(serveErr),
				logging.String(logging.FieldEventType, "http_server_failed"))
		}
	}()

	ipcServer, err := ipc.NewServer(d.ctx, d.cfg.SocketPath(), ipc.ServiceDeps{
		Coordinator:    d.coord,
		LockPath:       d.lockPath,
		ReaderAttached: d.reader.Attached,
	}, d.logger)
	if err != nil {
		d.teardown()
		return fmt.Errorf("start ipc server: %w", err)
	}
	d.ipcServer = ipcServer
	d.ipcServer.Serve()

	d.running.Store(true)
	d.logger.Info("kiosk daemon started",
		logging.String("http", d.httpAddr),
		logging.String("socket", d.cfg.SocketPath()),
		logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts the servers down and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.teardown()
	d.running.Store(false)
	d.logger.Info("kiosk daemon stopped")
}

// Close stops the daemon and closes its stores.
func (d *Daemon) Close() error {
	d.Stop()
	if d.ledger != nil {
		return d.ledger.Close()
	}
	return nil
}

func (d *Daemon) teardown() {
	if d.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.httpServer.Shutdown(shutdownCtx); err != nil {
			d.logger.Warn("http shutdown failed", logging.Error(err))
		}
		cancel()
		d.httpServer = nil
	}
	if d.ipcServer != nil {
		d.ipcServer.Close()
		d.ipcServer = nil
	}
	d.reader.Stop()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.ctx = nil
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
}
