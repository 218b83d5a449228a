package bridge

import (
	"encoding/json"
	"path/filepath"
)

// Error codes shared by both transports.
const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Error is a transport-level failure. Operation failures such as a missing
// file are results, not Errors.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

// Request is a page → host call over the WebSocket transport.
type Request struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response answers a Request. Exactly one of Result and Error is set.
type Response struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Result any             `json:"result"`
	Error  *Error          `json:"error,omitempty"`
}

// HandoffRequest is the wire format for requests sent over the Unix socket.
type HandoffRequest struct {
	Type  string   `json:"type"`            // "OpenFiles", "Ping"
	Paths []string `json:"paths,omitempty"` // absolute document paths for OpenFiles
}

// HandoffResponse is the wire format for responses sent over the Unix socket.
type HandoffResponse struct {
	Type    string `json:"type"`              // "OK", "Error"
	Code    int    `json:"code,omitempty"`    // error code
	Message string `json:"message,omitempty"` // error message
}

// HandoffRouter handles requests from a second instance. Implemented by the
// main app.
type HandoffRouter interface {
	OpenFiles(paths []string) error
}

// SocketPath returns the handoff socket inside the config directory.
func SocketPath(configDir string) string {
	return filepath.Join(configDir, "quill.sock")
}
