package daemon

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/specter-dev/specter/internal/action"
	"github.com/specter-dev/specter/internal/library"
)

// stubDriver satisfies input.Driver without touching real devices.
type stubDriver struct {
	moves int
}

func (d *stubDriver) MoveMouse(x, y int) error             { d.moves++; return nil }
func (d *stubDriver) Click(button string) error            { return nil }
func (d *stubDriver) ButtonDown(button string) error       { return nil }
func (d *stubDriver) ButtonUp(button string) error         { return nil }
func (d *stubDriver) Scroll(amount int, axis string) error { return nil }
func (d *stubDriver) TypeText(text string) error           { return nil }
func (d *stubDriver) TapKey(key string) error              { return nil }
func (d *stubDriver) KeyDown(key string) error             { return nil }
func (d *stubDriver) KeyUp(key string) error               { return nil }
func (d *stubDriver) Location() (int, int, error)          { return 42, 17, nil }

func newTestServer(t *testing.T) (socketPath string, driver *stubDriver) {
	t.Helper()

	lib, err := library.New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create library: %v", err)
	}

	driver = &stubDriver{}
	dispatch := NewDispatcher()
	dispatch.Driver = driver

	session := NewSession(lib, dispatch, nil)
	socketPath = filepath.Join(t.TempDir(), "specter.sock")
	srv := NewServer(session, dispatch, socketPath, 4096)

	go srv.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})

	waitForSocket(t, socketPath)
	return socketPath, driver
}

func waitForSocket(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if conn, err := net.Dial("unix", path); err == nil {
			conn.Close()
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Daemon socket %s never came up", path)
}

// sendRaw writes raw bytes and reads the single response.
func sendRaw(t *testing.T, socketPath string, payload []byte) Response {
	t.Helper()

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write(payload); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	conn.(*net.UnixConn).CloseWrite()

	raw, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("Failed to decode response %q: %v", raw, err)
	}
	return resp
}

func sendReq(t *testing.T, socketPath string, req Request) Response {
	t.Helper()
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	return sendRaw(t, socketPath, data)
}

func TestPing(t *testing.T) {
	sock, _ := newTestServer(t)

	resp := sendReq(t, sock, Request{Type: "ping"})
	if resp.Status != "success" {
		t.Fatalf("Expected success, got %+v", resp)
	}
	if resp.Version != Version {
		t.Errorf("Expected version %s, got %s", Version, resp.Version)
	}
}

func TestRecordingOverSocket(t *testing.T) {
	sock, _ := newTestServer(t)

	resp := sendReq(t, sock, Request{Type: "start_recording", Name: "demo"})
	if resp.Status != "success" {
		t.Fatalf("start_recording failed: %+v", resp)
	}

	// Duplicate start is rejected with a stable error kind.
	resp = sendReq(t, sock, Request{Type: "start_recording", Name: "other"})
	if resp.Status != "error" || resp.Error != KindAlreadyRecording {
		t.Errorf("Expected already_recording, got %+v", resp)
	}

	a := action.ClickMouse("left")
	resp = sendReq(t, sock, Request{Type: "record_action", Action: &a})
	if resp.Status != "success" {
		t.Fatalf("record_action failed: %+v", resp)
	}

	resp = sendReq(t, sock, Request{Type: "stop_recording"})
	if resp.Status != "success" {
		t.Fatalf("stop_recording failed: %+v", resp)
	}
	if resp.Sequence != "demo" || resp.Steps != 1 {
		t.Errorf("Unexpected stop summary: %+v", resp)
	}

	resp = sendReq(t, sock, Request{Type: "list_sequences"})
	if len(resp.Sequences) != 1 || resp.Sequences[0] != "demo" {
		t.Errorf("Expected [demo], got %v", resp.Sequences)
	}
}

func TestPlaybackOverSocket(t *testing.T) {
	sock, driver := newTestServer(t)

	sendReq(t, sock, Request{Type: "start_recording", Name: "demo"})
	a := action.MoveMouse(10, 10)
	sendReq(t, sock, Request{Type: "record_action", Action: &a})
	sendReq(t, sock, Request{Type: "stop_recording"})

	resp := sendReq(t, sock, Request{Type: "load_sequence", Name: "demo"})
	if resp.Status != "success" {
		t.Fatalf("load_sequence failed: %+v", resp)
	}

	resp = sendReq(t, sock, Request{Type: "play_sequence"})
	if resp.Status != "success" {
		t.Fatalf("play_sequence failed: %+v", resp)
	}
	if driver.moves != 1 {
		t.Errorf("Expected 1 dispatched move, got %d", driver.moves)
	}
}

func TestLoadMissingOverSocket(t *testing.T) {
	sock, _ := newTestServer(t)

	resp := sendReq(t, sock, Request{Type: "load_sequence", Name: "ghost"})
	if resp.Status != "error" || resp.Error != KindSequenceNotFound {
		t.Errorf("Expected sequence_not_found, got %+v", resp)
	}
}

func TestStopPlaybackWhenIdleOverSocket(t *testing.T) {
	sock, _ := newTestServer(t)

	resp := sendReq(t, sock, Request{Type: "stop_playback"})
	if resp.Status != "error" || resp.Error != KindNotPlaying {
		t.Errorf("Expected not_playing, got %+v", resp)
	}
}

func TestUnknownRequestType(t *testing.T) {
	sock, _ := newTestServer(t)

	resp := sendReq(t, sock, Request{Type: "levitate"})
	if resp.Status != "error" || resp.Error != KindUnknownRequestType {
		t.Errorf("Expected unknown_request_type, got %+v", resp)
	}
}

func TestMalformedJSON(t *testing.T) {
	sock, _ := newTestServer(t)

	resp := sendRaw(t, sock, []byte(`{"type": "ping"`))
	if resp.Status != "error" || resp.Error != KindMalformedRequest {
		t.Errorf("Expected malformed_request, got %+v", resp)
	}
}

func TestOversizedMessage(t *testing.T) {
	sock, _ := newTestServer(t)

	big := `{"type":"start_recording","description":"` + strings.Repeat("x", 8192) + `"}`
	resp := sendRaw(t, sock, []byte(big))
	if resp.Status != "error" || resp.Error != KindMalformedRequest {
		t.Errorf("Oversized message should be rejected, got %+v", resp)
	}
}

func TestImmediateInputOps(t *testing.T) {
	sock, driver := newTestServer(t)

	resp := sendReq(t, sock, Request{Type: "move_mouse", X: 5, Y: 6})
	if resp.Status != "success" {
		t.Fatalf("move_mouse failed: %+v", resp)
	}
	if driver.moves != 1 {
		t.Errorf("Expected 1 move, got %d", driver.moves)
	}

	resp = sendReq(t, sock, Request{Type: "get_mouse_position"})
	if resp.Status != "success" || resp.X == nil || resp.Y == nil {
		t.Fatalf("get_mouse_position failed: %+v", resp)
	}
	if *resp.X != 42 || *resp.Y != 17 {
		t.Errorf("Expected (42,17), got (%d,%d)", *resp.X, *resp.Y)
	}
}

func TestStaleSocketRemoved(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, "specter.sock")

	// Leave a dead socket file behind, as a crashed daemon would.
	ln, err := net.ListenUnix("unix", &net.UnixAddr{Name: sockPath, Net: "unix"})
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	ln.SetUnlinkOnClose(false)
	ln.Close()
	if _, err := os.Stat(sockPath); err != nil {
		t.Fatalf("Expected stale socket file to remain: %v", err)
	}

	lib, _ := library.New(t.TempDir())
	dispatch := NewDispatcher()
	dispatch.Driver = &stubDriver{}
	srv := NewServer(NewSession(lib, dispatch, nil), dispatch, sockPath, 4096)

	go srv.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	waitForSocket(t, sockPath)
	resp := sendReq(t, sockPath, Request{Type: "ping"})
	if resp.Status != "success" {
		t.Errorf("Daemon should start over a stale socket, got %+v", resp)
	}
}

func TestRefusesNonSocketPath(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, "specter.sock")
	if err := os.WriteFile(sockPath, []byte("not a socket"), 0o644); err != nil {
		t.Fatal(err)
	}

	lib, _ := library.New(t.TempDir())
	dispatch := NewDispatcher()
	srv := NewServer(NewSession(lib, dispatch, nil), dispatch, sockPath, 4096)

	if err := srv.Start(); err == nil {
		t.Error("Start should refuse a regular file at the socket path")
	}
}

func TestSocketPermissions(t *testing.T) {
	sock, _ := newTestServer(t)

	st, err := os.Stat(sock)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := st.Mode().Perm(); perm != 0o600 {
		t.Errorf("Expected socket mode 0600, got %o", perm)
	}
}

func TestDispatcherWait(t *testing.T) {
	d := &Dispatcher{}

	start := time.Now()
	if err := d.Execute(action.Wait(50)); err != nil {
		t.Fatalf("Execute(wait) failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Wait returned after %s, expected at least 50ms", elapsed)
	}
}

func TestDispatcherUnknownKind(t *testing.T) {
	d := &Dispatcher{}

	if err := d.Execute(action.Action{Kind: "teleport"}); err == nil {
		t.Error("Execute should reject an unknown kind")
	}
}
