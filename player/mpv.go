package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vidtrack/vidtrack/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPV adapts an mpv process controlled over its JSON-IPC socket.
//
// Getters issue one get_property round trip each and fall back to the zero
// value when mpv is unreachable or the property is unavailable. Native events
// are produced by an Observer that translates property changes.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	exitOnce   sync.Once
	mu         sync.Mutex // serializes retried commands

	events   Emitter
	observer *Observer
}

// NewMPV creates an adapter that will launch its own mpv on Play.
func NewMPV() *MPV {
	return &MPV{exited: make(chan struct{})}
}

// AttachMPV creates an adapter for an mpv instance already started with
// --input-ipc-server=socketPath.
func AttachMPV(socketPath string) *MPV {
	return &MPV{socketPath: socketPath, exited: make(chan struct{})}
}

func (m *MPV) Kind() Kind { return KindMPV }

// Play launches mpv on target and starts observing it. If mpv already runs
// under this adapter, target is loaded into the existing instance.
func (m *MPV) Play(target string) error {
	safeTarget, err := sanitizeMediaTarget(target)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	if m.IsRunning() {
		_, err := m.sendCommand("loadfile", safeTarget, "replace")
		return err
	}

	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("vidtrack-%x.sock", randomBytes))
	}

	// Only the socket and the target; the user's mpv.conf decides the rest.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		"--force-window=yes",
		safeTarget,
	}

	m.cmd = exec.Command("mpv", args...)
	m.cmd.SysProcAttr = sysProcAttr()

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	go func() {
		_ = m.cmd.Wait()
		m.markExited()
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return m.Observe()
}

// Observe starts translating mpv property changes into native events.
// It is called by Play; attached adapters call it directly.
func (m *MPV) Observe() error {
	if m.observer == nil {
		m.observer = NewObserver(m.socketPath, &m.events, m.markExited)
	}
	return m.observer.Start()
}

func (m *MPV) markExited() {
	m.exitOnce.Do(func() { close(m.exited) })
}

// Wait returns a channel closed when mpv exits or the observer loses its
// connection.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			_ = conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// IsRunning reports whether mpv is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.property("pid")
	return err == nil
}

// Close stops observing and, when the adapter launched mpv, quits it.
func (m *MPV) Close() error {
	if m.observer != nil {
		m.observer.Stop()
	}

	if m.cmd == nil || m.socketPath == "" {
		return nil
	}

	_, _ = m.sendCommand("quit")

	select {
	case <-m.exited:
	case <-time.After(3 * time.Second):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// property reads one property with a single attempt. Getters must not stall
// a poll tick behind retries.
func (m *MPV) property(name string) (any, error) {
	if m.socketPath == "" {
		return nil, fmt.Errorf("property %s: not connected", name)
	}
	return doSendCommand(m.socketPath, []any{"get_property", name})
}

func (m *MPV) floatProperty(name string) float64 {
	data, err := m.property(name)
	if err != nil {
		return 0
	}
	val, _ := data.(float64)
	return finite(val)
}

func (m *MPV) boolProperty(name string) bool {
	data, err := m.property(name)
	if err != nil {
		return false
	}
	val, _ := data.(bool)
	return val
}

func (m *MPV) stringProperty(name string) string {
	data, err := m.property(name)
	if err != nil {
		return ""
	}
	val, _ := data.(string)
	return val
}

func (m *MPV) CurrentTime() float64 { return m.floatProperty("time-pos") }
func (m *MPV) Duration() float64    { return m.floatProperty("duration") }
func (m *MPV) Volume() float64      { return unit(m.floatProperty("volume")) }
func (m *MPV) Muted() bool          { return m.boolProperty("mute") }
func (m *MPV) Paused() bool         { return m.boolProperty("pause") }
func (m *MPV) Seeking() bool        { return m.boolProperty("seeking") }
func (m *MPV) Buffering() bool      { return m.boolProperty("paused-for-cache") }
func (m *MPV) Fullscreen() bool     { return m.boolProperty("fullscreen") }
func (m *MPV) VideoSrc() string     { return m.stringProperty("path") }

// Quality reads the decoded video size and the demuxer bitrate in bits per
// second.
func (m *MPV) Quality() *Quality {
	q := dimensionQuality(int(m.floatProperty("width")), int(m.floatProperty("height")))
	if q == nil {
		return nil
	}
	q.Bitrate = int(m.floatProperty("video-bitrate"))
	return q
}

func (m *MPV) AddEventListener(name string, l *Listener) {
	m.events.AddEventListener(name, l)
}

func (m *MPV) RemoveEventListener(name string, l *Listener) {
	m.events.RemoveEventListener(name, l)
}

// sanitizeMediaTarget validates that a target is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// URLs must not start with - or mpv would read them as flags
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}
