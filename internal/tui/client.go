package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/specter-dev/specter/internal/action"
	"github.com/specter-dev/specter/internal/daemon"
)

// Client sends single-shot requests to the daemon socket. Each call
// opens a fresh connection, writes one request and reads one response.
type Client struct {
	socketPath string
}

// NewClient creates a client for the daemon at socketPath.
func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

func (c *Client) send(req daemon.Request) (*daemon.Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("daemon offline: %w", err)
	}
	defer conn.Close()

	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write(data); err != nil {
		return nil, err
	}
	if uc, ok := conn.(*net.UnixConn); ok {
		uc.CloseWrite()
	}

	raw, err := io.ReadAll(conn)
	if err != nil {
		return nil, err
	}

	var resp daemon.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		if resp.Message != "" {
			return nil, fmt.Errorf("%s: %s", resp.Error, resp.Message)
		}
		return nil, fmt.Errorf("%s", resp.Error)
	}
	return &resp, nil
}

// Ping checks whether the daemon is reachable.
func (c *Client) Ping() error {
	_, err := c.send(daemon.Request{Type: "ping"})
	return err
}

// ListSequences fetches the stored sequence names.
func (c *Client) ListSequences() ([]string, error) {
	resp, err := c.send(daemon.Request{Type: "list_sequences"})
	if err != nil {
		return nil, err
	}
	return resp.Sequences, nil
}

// GetSequence fetches one stored sequence with its actions.
func (c *Client) GetSequence(name string) (*action.Sequence, error) {
	resp, err := c.send(daemon.Request{Type: "get_sequence", Name: name})
	if err != nil {
		return nil, err
	}
	return resp.Detail, nil
}

// Play loads and replays a sequence. It blocks until playback finishes,
// so callers should run it off the UI goroutine.
func (c *Client) Play(name string) error {
	if _, err := c.send(daemon.Request{Type: "load_sequence", Name: name}); err != nil {
		return err
	}
	_, err := c.send(daemon.Request{Type: "play_sequence"})
	return err
}

// StopPlayback asks the daemon to abandon the current replay.
func (c *Client) StopPlayback() error {
	_, err := c.send(daemon.Request{Type: "stop_playback"})
	return err
}

// Delete removes a stored sequence.
func (c *Client) Delete(name string) error {
	_, err := c.send(daemon.Request{Type: "delete_sequence", Name: name})
	return err
}

// Status describes the daemon's recording and playback state.
type Status struct {
	Recording bool
	Playing   bool
	Sequence  string
	Step      int
	Total     int
}

// FetchStatus polls the daemon's current state.
func (c *Client) FetchStatus() (Status, error) {
	var st Status

	resp, err := c.send(daemon.Request{Type: "is_recording"})
	if err != nil {
		return st, err
	}
	if resp.Recording != nil {
		st.Recording = *resp.Recording
	}

	resp, err = c.send(daemon.Request{Type: "playback_status"})
	if err != nil {
		return st, err
	}
	if resp.Playing != nil {
		st.Playing = *resp.Playing
	}
	st.Sequence = resp.Sequence
	st.Step = resp.Steps
	st.Total = resp.Total
	return st, nil
}
