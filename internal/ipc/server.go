// Package ipc exposes daemon control to the local CLI via JSON-RPC over
// a Unix domain socket.
package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"kiosk/internal/coordinator"
	"kiosk/internal/logging"
)

// ServiceDeps supplies the state the RPC service answers from.
type ServiceDeps struct {
	Coordinator    *coordinator.Coordinator
	LockPath       string
	ReaderAttached func() bool
}

// Server accepts RPC connections on a Unix socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, deps ServiceDeps, logger *slog.Logger) (*Server, error) {
	if deps.Coordinator == nil {
		return nil, errors.New("ipc server requires coordinator")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{deps: deps, socket: path, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Kiosk", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	deps   ServiceDeps
	socket string
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) readerAttached() bool {
	if s.deps.ReaderAttached == nil {
		return false
	}
	return s.deps.ReaderAttached()
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status, err := s.deps.Coordinator.Status(s.ctx, s.readerAttached())
	if err != nil {
		return err
	}
	resp.Status = status
	resp.LockPath = s.deps.LockPath
	resp.Socket = s.socket
	return nil
}

func (s *service) State(_ StateRequest, resp *StateResponse) error {
	resp.State = s.deps.Coordinator.State()
	return nil
}

func (s *service) Scan(req ScanRequest, resp *ScanResponse) error {
	result, err := s.deps.Coordinator.HandleScan(s.ctx, req.CardID)
	if err != nil {
		return err
	}
	resp.Inserted = result.Inserted
	resp.Mapped = result.Mapped
	resp.State = result.State
	return nil
}

func (s *service) Navigate(req NavigateRequest, resp *NavigateResponse) error {
	result, err := s.deps.Coordinator.Navigate(req.Direction)
	if err != nil {
		return err
	}
	resp.Active = result.Active
	resp.State = result.State
	return nil
}

func (s *service) Cards(_ CardsRequest, resp *CardsResponse) error {
	cards, err := s.deps.Coordinator.ScannedCards(s.ctx)
	if err != nil {
		return err
	}
	resp.Scanned = cards.Scanned
	resp.Unknown = cards.Unknown
	return nil
}

func (s *service) MapCard(req MapCardRequest, resp *MapCardResponse) error {
	if err := s.deps.Coordinator.MapCard(req.CardID, req.Asset); err != nil {
		return err
	}
	resp.Assets = s.deps.Coordinator.CardAssets(req.CardID)
	return nil
}

func (s *service) UnmapAsset(req UnmapAssetRequest, resp *UnmapAssetResponse) error {
	if err := s.deps.Coordinator.UnmapAsset(req.CardID, req.Index); err != nil {
		return err
	}
	resp.Assets = s.deps.Coordinator.CardAssets(req.CardID)
	return nil
}

func (s *service) MappingText(_ MappingTextRequest, resp *MappingTextResponse) error {
	resp.Text = s.deps.Coordinator.MappingText()
	return nil
}

func (s *service) WriteMappingText(req WriteMappingTextRequest, resp *WriteMappingTextResponse) error {
	if err := s.deps.Coordinator.WriteMappingText(req.Text); err != nil {
		return err
	}
	resp.Written = true
	return nil
}

func (s *service) Assets(_ AssetsRequest, resp *AssetsResponse) error {
	infos, err := s.deps.Coordinator.Assets()
	if err != nil {
		return err
	}
	resp.Assets = infos
	return nil
}
