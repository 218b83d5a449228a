package bridge

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// HandoffClient talks to a running primary instance over its Unix socket.
type HandoffClient struct {
	sockPath string
	timeout  time.Duration
}

// NewHandoffClient creates a client for sockPath.
func NewHandoffClient(sockPath string) *HandoffClient {
	return &HandoffClient{
		sockPath: sockPath,
		timeout:  2 * time.Second,
	}
}

// Ping reports whether a primary instance is listening.
func (c *HandoffClient) Ping() bool {
	resp, err := c.send(HandoffRequest{Type: "Ping"})
	return err == nil && resp.Type == "OK"
}

// OpenFiles asks the primary to open paths.
// Opens a fresh connection per call.
func (c *HandoffClient) OpenFiles(paths []string) error {
	resp, err := c.send(HandoffRequest{
		Type:  "OpenFiles",
		Paths: paths,
	})
	if err != nil {
		return fmt.Errorf("handoff request failed: %w", err)
	}
	if resp.Type == "Error" {
		return fmt.Errorf("handoff error (code %d): %s", resp.Code, resp.Message)
	}
	return nil
}

// send opens a connection, writes the request, reads one response, and closes.
func (c *HandoffClient) send(req HandoffRequest) (*HandoffResponse, error) {
	conn, err := net.DialTimeout("unix", c.sockPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to running instance at %s: %w", c.sockPath, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	data = append(data, '\n')

	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("write failed: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read failed: %w", err)
		}
		return nil, fmt.Errorf("instance closed connection")
	}

	var resp HandoffResponse
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("parse response failed: %w", err)
	}
	return &resp, nil
}
