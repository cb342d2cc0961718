package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/specter-dev/specter/internal/daemon"
)

const dialTimeout = 5 * time.Second

// send delivers one request to the daemon and waits for its response. Replay
// requests block until the replay finishes, so reads carry no deadline.
func send(req daemon.Request) (*daemon.Response, error) {
	conn, err := net.DialTimeout("unix", socketPath, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon at %s: %w (is it running?)", socketPath, err)
	}
	defer conn.Close()

	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	if uc, ok := conn.(*net.UnixConn); ok {
		uc.CloseWrite()
	}

	raw, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp daemon.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp, nil
}

// sendOK is send plus daemon-side error unwrapping: an error envelope
// becomes a Go error carrying the kind and message.
func sendOK(req daemon.Request) (*daemon.Response, error) {
	resp, err := send(req)
	if err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, fmt.Errorf("%s: %s", resp.Error, resp.Message)
	}
	return resp, nil
}
