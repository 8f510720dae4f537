package daemon

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"kiosk/internal/config"
	"kiosk/internal/logging"
)

// readerWatch listens for udev netlink events so the daemon can report
// whether the configured RFID reader device is attached. Scans still
// arrive over HTTP from the reader client; this is diagnostics only.
type readerWatch struct {
	logger *slog.Logger
	device string

	mu       sync.Mutex
	conn     *netlink.UEventConn
	quit     chan struct{}
	running  bool
	attached bool
}

// newReaderWatch returns nil when no reader device is configured.
func newReaderWatch(cfg *config.Config, logger *slog.Logger) *readerWatch {
	device := strings.TrimSpace(cfg.Kiosk.ReaderDevice)
	if device == "" {
		return nil
	}

	w := &readerWatch{
		logger: logging.NewComponentLogger(logger, "reader-watch"),
		device: device,
	}
	if _, err := os.Stat(device); err == nil {
		w.attached = true
	}
	return w
}

// Start begins listening for attach and detach events.
func (w *readerWatch) Start(ctx context.Context) {
	if w == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		w.logger.Warn("failed to connect to netlink socket; reader presence will not be tracked",
			logging.Error(err),
			logging.String(logging.FieldEventType, "netlink_connect_failed"))
		return
	}

	w.conn = conn
	w.quit = make(chan struct{})
	w.running = true

	quit := w.quit
	go w.watchLoop(ctx, quit)

	w.logger.Info("reader watch started",
		logging.String("device", w.device),
		logging.Bool("attached", w.attached))
}

// Stop shuts down the watcher.
func (w *readerWatch) Stop() {
	if w == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if w.quit != nil {
		close(w.quit)
		w.quit = nil
	}
	if w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
	w.running = false
}

// Attached reports whether the reader device is currently present.
func (w *readerWatch) Attached() bool {
	if w == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.attached
}

func (w *readerWatch) watchLoop(ctx context.Context, quit <-chan struct{}) {
	events := make(chan netlink.UEvent)
	errs := make(chan error)

	w.mu.Lock()
	conn := w.conn
	w.mu.Unlock()
	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(events, errs, w.buildMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-events:
			w.handleEvent(uevent)
		case err := <-errs:
			w.logger.Warn("netlink monitor error",
				logging.Error(err),
				logging.String(logging.FieldEventType, "netlink_monitor_error"))
		}
	}
}

func (w *readerWatch) buildMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{Action: &action})
	return rules
}

func (w *readerWatch) handleEvent(uevent netlink.UEvent) {
	devname := uevent.Env["DEVNAME"]
	if devname == "" {
		return
	}
	if !strings.HasPrefix(devname, "/") {
		devname = "/dev/" + devname
	}
	if devname != w.device {
		return
	}

	attached := uevent.Action == netlink.ADD
	w.mu.Lock()
	changed := w.attached != attached
	w.attached = attached
	w.mu.Unlock()

	if changed {
		w.logger.Info("reader device state changed",
			logging.String("device", w.device),
			logging.Bool("attached", attached),
			logging.String(logging.FieldEventType, "reader_device_changed"))
	}
}
