package bridge

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"sync"

	"quillgo/logging"
)

// HandoffServer listens on a Unix socket and forwards open requests from
// later launches to a HandoffRouter.
type HandoffServer struct {
	router   HandoffRouter
	listener net.Listener
	sockPath string
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewHandoffServer binds sockPath, replacing a stale socket file. Callers
// should first check with Ping that no live primary owns it.
func NewHandoffServer(sockPath string, router HandoffRouter, logger *slog.Logger) (*HandoffServer, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	// Remove stale socket file.
	_ = os.Remove(sockPath)

	listener, err := net.Listen("unix", sockPath)
	if err != nil {
		return nil, err
	}

	return &HandoffServer{
		router:   router,
		listener: listener,
		sockPath: sockPath,
		logger:   logger,
	}, nil
}

// Serve accepts connections and handles them. Blocks until the listener is closed.
func (s *HandoffServer) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Listener was closed.
			return err
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

// Close shuts down the server: closes the listener, waits for connections, removes the socket.
func (s *HandoffServer) Close() {
	_ = s.listener.Close()
	s.wg.Wait()
	_ = os.Remove(s.sockPath)
}

func (s *HandoffServer) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4*1024), 1024*1024)

	for scanner.Scan() {
		resp := s.handleRequest(scanner.Bytes())

		data, err := json.Marshal(resp)
		if err != nil {
			data, _ = json.Marshal(HandoffResponse{
				Type:    "Error",
				Code:    CodeInternalError,
				Message: err.Error(),
			})
		}
		data = append(data, '\n')

		if _, err := conn.Write(data); err != nil {
			return
		}
	}
}

func (s *HandoffServer) handleRequest(line []byte) HandoffResponse {
	var req HandoffRequest
	if err := json.Unmarshal(line, &req); err != nil {
		return HandoffResponse{
			Type:    "Error",
			Code:    CodeParseError,
			Message: "parse error: " + err.Error(),
		}
	}

	switch req.Type {
	case "Ping":
		return HandoffResponse{Type: "OK"}

	case "OpenFiles":
		if err := s.router.OpenFiles(req.Paths); err != nil {
			return HandoffResponse{
				Type:    "Error",
				Code:    CodeInternalError,
				Message: err.Error(),
			}
		}
		s.logger.Info("accepted files from another instance", slog.Int("count", len(req.Paths)))
		return HandoffResponse{Type: "OK"}

	default:
		s.logger.Warn("unknown handoff request", slog.String("type", req.Type))
		return HandoffResponse{
			Type:    "Error",
			Code:    CodeMethodNotFound,
			Message: "unknown request type: " + req.Type,
		}
	}
}
