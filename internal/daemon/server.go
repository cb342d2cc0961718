package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Version reported by the ping operation.
const Version = "0.1.0"

const connTimeout = 30 * time.Second

// Server owns the listening endpoint. Each accepted connection carries one
// JSON request and receives one JSON response; connections are handled
// independently, so one client's failure never affects another's.
type Server struct {
	session    *Session
	dispatch   *Dispatcher
	socketPath string
	maxMessage int

	mu       sync.Mutex
	listener net.Listener
	closed   bool
	wg       sync.WaitGroup
}

// NewServer creates a server around a session and its collaborators.
func NewServer(session *Session, dispatch *Dispatcher, socketPath string, maxMessage int) *Server {
	return &Server{
		session:    session,
		dispatch:   dispatch,
		socketPath: socketPath,
		maxMessage: maxMessage,
	}
}

// Start binds the Unix socket and serves connections until Shutdown. A
// stale socket file from a previous run is removed; a non-socket file at
// the path is an error.
func (s *Server) Start() error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0o755); err != nil {
		return fmt.Errorf("create socket dir: %w", err)
	}

	if st, err := os.Lstat(s.socketPath); err == nil {
		if st.Mode()&os.ModeSocket == 0 {
			return fmt.Errorf("socket path exists and is not a unix socket: %s", s.socketPath)
		}
		if err := os.Remove(s.socketPath); err != nil {
			return fmt.Errorf("remove stale socket: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat socket path: %w", err)
	}

	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listen unix: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		ln.Close()
		return fmt.Errorf("chmod socket: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	log.Printf("specter daemon listening on %s", s.socketPath)

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// Shutdown stops accepting connections and waits for in-flight handlers,
// bounded by the context.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	ln := s.listener
	s.mu.Unlock()

	if ln != nil {
		ln.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handleConn reads one request, routes it, and writes one response. Any
// panic or decode failure is confined to this connection.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(connTimeout))

	raw, err := s.readMessage(conn)
	if err != nil {
		s.writeResponse(conn, fail(fmt.Errorf("%w: %v", ErrMalformedRequest, err)))
		return
	}

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		s.writeResponse(conn, fail(fmt.Errorf("%w: invalid JSON: %v", ErrMalformedRequest, err)))
		return
	}

	resp := s.route(&req)
	// Playback can legitimately outlive the read deadline; refresh before
	// writing the result.
	conn.SetDeadline(time.Now().Add(connTimeout))
	s.writeResponse(conn, resp)
}

// readMessage accumulates bytes until they form a complete JSON value. A
// message exceeding the configured maximum is rejected, not truncated.
func (s *Server) readMessage(conn net.Conn) ([]byte, error) {
	buf := make([]byte, 0, 512)
	chunk := make([]byte, 1024)

	for {
		n, err := conn.Read(chunk)
		buf = append(buf, chunk[:n]...)

		if len(buf) > s.maxMessage {
			return nil, fmt.Errorf("message exceeds %d bytes", s.maxMessage)
		}
		if len(buf) > 0 && json.Valid(buf) {
			return buf, nil
		}
		if err != nil {
			if len(buf) == 0 {
				return nil, fmt.Errorf("empty request")
			}
			return nil, fmt.Errorf("incomplete request: %v", err)
		}
	}
}

func (s *Server) writeResponse(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		data = []byte(`{"status":"error","error":"internal_error","message":"response encoding failed"}`)
	}
	if _, err := conn.Write(data); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

// route matches the request discriminator against the closed operation set.
func (s *Server) route(req *Request) Response {
	switch req.Type {

	// --- Recording ---
	case "start_recording":
		if err := s.session.StartRecording(req.Name, req.Description); err != nil {
			return fail(err)
		}
		return okMsg("Recording started")

	case "record_action":
		if req.Action == nil {
			return fail(fmt.Errorf("%w: action is required", ErrMalformedRequest))
		}
		if err := s.session.RecordAction(*req.Action); err != nil {
			return fail(err)
		}
		return okMsg("Action recorded")

	case "stop_recording":
		seq, err := s.session.StopRecording()
		if err != nil {
			return fail(err)
		}
		resp := okMsg("Recording stopped")
		resp.Sequence = seq.Name
		resp.Steps = len(seq.Actions)
		return resp

	case "is_recording":
		resp := ok()
		resp.Recording = boolPtr(s.session.IsRecording())
		return resp

	// --- Playback ---
	case "load_sequence":
		if err := s.session.LoadSequence(req.Name); err != nil {
			return fail(err)
		}
		return okMsg(fmt.Sprintf("Loaded sequence: %s", req.Name))

	case "play_sequence":
		if err := s.session.PlaySequence(); err != nil {
			return fail(err)
		}
		return okMsg("Playback finished")

	case "stop_playback":
		if err := s.session.StopPlayback(); err != nil {
			return fail(err)
		}
		return okMsg("Playback stopped")

	case "playback_status":
		playing, name, done, total := s.session.PlaybackStatus()
		resp := ok()
		resp.Playing = boolPtr(playing)
		resp.Sequence = name
		resp.Steps = done
		resp.Total = total
		return resp

	// --- Library ---
	case "list_sequences":
		resp := ok()
		resp.Sequences = s.session.ListSequences()
		return resp

	case "get_sequence":
		seq, err := s.session.GetSequence(req.Name)
		if err != nil {
			return fail(err)
		}
		resp := ok()
		resp.Detail = seq
		return resp

	case "delete_sequence":
		if err := s.session.DeleteSequence(req.Name); err != nil {
			return fail(err)
		}
		return okMsg(fmt.Sprintf("Deleted sequence: %s", req.Name))

	case "history":
		runs, err := s.session.History(req.Limit)
		if err != nil {
			return fail(storageErr("read history", err))
		}
		resp := ok()
		resp.Runs = runs
		return resp

	// --- Mouse ---
	case "move_mouse":
		return execResp(s.dispatch.Driver.MoveMouse(req.X, req.Y))

	case "click_mouse":
		return execResp(s.dispatch.Driver.Click(defaultButton(req.Button)))

	case "mouse_down":
		return execResp(s.dispatch.Driver.ButtonDown(defaultButton(req.Button)))

	case "mouse_up":
		return execResp(s.dispatch.Driver.ButtonUp(defaultButton(req.Button)))

	case "scroll":
		return execResp(s.dispatch.Driver.Scroll(req.Amount, req.Axis))

	case "get_mouse_position":
		x, y, err := s.dispatch.Driver.Location()
		if err != nil {
			return fail(err)
		}
		resp := ok()
		resp.X = intPtr(x)
		resp.Y = intPtr(y)
		return resp

	// --- Keyboard ---
	case "type_text":
		return execResp(s.dispatch.Driver.TypeText(req.Text))

	case "press_key":
		return execResp(s.dispatch.Driver.TapKey(req.Key))

	case "key_down":
		return execResp(s.dispatch.Driver.KeyDown(req.Key))

	case "key_up":
		return execResp(s.dispatch.Driver.KeyUp(req.Key))

	// --- Shell ---
	case "run_command":
		out, err := s.dispatch.Shell.Run(req.Command)
		if err != nil {
			return fail(err)
		}
		resp := ok()
		resp.Output = out
		return resp

	// --- Windows and processes ---
	case "is_process_running":
		running, err := s.dispatch.Windows.IsProcessRunning(req.App)
		if err != nil {
			return fail(err)
		}
		resp := ok()
		resp.Running = boolPtr(running)
		return resp

	case "is_application_visible":
		visible, err := s.dispatch.Windows.IsApplicationVisible(req.App)
		if err != nil {
			return fail(err)
		}
		resp := ok()
		resp.Visible = boolPtr(visible)
		return resp

	case "launch_application":
		return execResp(s.dispatch.Windows.LaunchApplication(req.App))

	case "focus_window":
		return execResp(s.dispatch.Windows.FocusWindow(req.Window))

	case "list_windows":
		windows, err := s.dispatch.Windows.ListWindows()
		if err != nil {
			return fail(err)
		}
		resp := ok()
		resp.Windows = windows
		return resp

	case "find_window":
		info, err := s.dispatch.Windows.FindWindow(req.Pattern)
		if err != nil {
			return fail(err)
		}
		resp := ok()
		resp.Window = info
		return resp

	case "maximize_window":
		return execResp(s.dispatch.Windows.MaximizeWindow(req.WindowID))

	case "minimize_window":
		return execResp(s.dispatch.Windows.MinimizeWindow(req.WindowID))

	case "close_window":
		return execResp(s.dispatch.Windows.CloseWindow(req.WindowID))

	case "move_resize_window":
		return execResp(s.dispatch.Windows.MoveResizeWindow(req.WindowID, req.X, req.Y, req.Width, req.Height))

	case "open_or_focus_application":
		return execResp(s.dispatch.Windows.OpenOrFocusApplication(req.App, req.LaunchCommand))

	// --- Sinks ---
	case "show_notification":
		return execResp(s.dispatch.Notifier.Notify(req.Summary, req.Body))

	case "speak":
		return execResp(s.dispatch.Speaker.Say(req.Text))

	// --- Status ---
	case "ping":
		resp := okMsg("pong")
		resp.Version = Version
		return resp
	}

	return fail(fmt.Errorf("%w: %q", ErrUnknownRequestType, req.Type))
}

func execResp(err error) Response {
	if err != nil {
		return fail(err)
	}
	return ok()
}

func defaultButton(button string) string {
	if button == "" {
		return "left"
	}
	return button
}
