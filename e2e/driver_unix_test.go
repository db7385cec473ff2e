//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

const ringSize = 1 << 20 // 1 MiB of scrollback

// binPath is set by TestMain to the freshly built binary
var binPath = "clubgrid_e2e"

// Keys as the terminal sends them
const (
	KeyEnter  = "\r"
	KeyCtrlC  = "\x03"
	KeyEsc    = "\x1b"
	KeyTab    = "\t"
	KeySpace  = " "
	KeyDown   = "j"
	KeyQuit   = "q"
	KeySearch = "/"
	KeyHelp   = "?"
)

// ansiRe strips CSI, OSC, charset and keypad sequences plus carriage returns
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` +
		`(?:\x1b\][^\x07]*\x07)|` +
		`(?:\x1b[\(\)][A-Za-z])|` +
		`(?:\x1b=|\x1b>)|` +
		`\r`,
)

// TUITestFramework runs the binary in a PTY and records everything it draws
type TUITestFramework struct {
	t         *testing.T
	pty       *os.File
	cmd       *exec.Cmd
	workspace string

	// output ring buffer
	mu   sync.Mutex
	buf  []byte
	head int
	full bool
}

// NewTUITest returns a driver bound to t
func NewTUITest(t *testing.T) *TUITestFramework {
	return &TUITestFramework{t: t, buf: make([]byte, ringSize)}
}

// CreateWorkspace creates the temporary directory used as $HOME and for
// the config, log and seed files
func (tf *TUITestFramework) CreateWorkspace() (string, error) {
	if tf.workspace != "" {
		return tf.workspace, nil
	}
	dir, err := os.MkdirTemp("", "clubgrid-e2e-*")
	if err != nil {
		return "", err
	}
	tf.workspace = dir
	return dir, nil
}

// WriteSeed stores a seed document in the workspace and returns its path
func (tf *TUITestFramework) WriteSeed(content string) (string, error) {
	dir, err := tf.CreateWorkspace()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "seed.yaml")
	return path, os.WriteFile(path, []byte(content), 0o644)
}

// StartApp launches clubgrid with args in a 120x40 PTY
func (tf *TUITestFramework) StartApp(args ...string) error {
	workspace, err := tf.CreateWorkspace()
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}

	tf.cmd = exec.Command(binPath, args...)
	tf.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+workspace,
		"CLUBGRID_CONFIG="+filepath.Join(workspace, "config.toml"),
		"CLUBGRID_LOG_FILE="+filepath.Join(workspace, "clubgrid.log"),
		"CLUBGRID_LOG_LEVEL=debug",
		"CLUBGRID_E2E_TEST=1",
	)

	f, err := pty.StartWithSize(tf.cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		return fmt.Errorf("failed to start command: %w", err)
	}
	tf.pty = f

	go tf.read()
	return nil
}

// read copies PTY output into the ring buffer until the PTY closes
func (tf *TUITestFramework) read() {
	chunk := make([]byte, 8192)
	for {
		n, err := tf.pty.Read(chunk)
		if n > 0 {
			tf.mu.Lock()
			for _, b := range chunk[:n] {
				tf.buf[tf.head] = b
				tf.head = (tf.head + 1) % ringSize
				if tf.head == 0 {
					tf.full = true
				}
			}
			tf.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// SendKeys writes keys to the PTY
func (tf *TUITestFramework) SendKeys(keys string) error {
	tf.t.Helper()
	_, err := tf.pty.Write([]byte(keys))
	return err
}

// SendCtrlC sends Ctrl+C
func (tf *TUITestFramework) SendCtrlC() error {
	tf.t.Helper()
	return tf.SendKeys(KeyCtrlC)
}

// Quit sends 'q'
func (tf *TUITestFramework) Quit() error {
	tf.t.Helper()
	return tf.SendKeys(KeyQuit)
}

// Select sends space to toggle the row under the cursor
func (tf *TUITestFramework) Select() error {
	tf.t.Helper()
	return tf.SendKeys(KeySpace)
}

// Enter presses return
func (tf *TUITestFramework) Enter() error {
	tf.t.Helper()
	return tf.SendKeys(KeyEnter)
}

// Down moves the cursor one row down
func (tf *TUITestFramework) Down() error {
	tf.t.Helper()
	return tf.SendKeys(KeyDown)
}

// Search focuses the search field and types term one key at a time
func (tf *TUITestFramework) Search(term string) error {
	tf.t.Helper()
	if err := tf.SendKeys(KeySearch); err != nil {
		return err
	}
	for _, r := range term {
		if err := tf.SendKeys(string(r)); err != nil {
			return err
		}
		time.Sleep(20 * time.Millisecond)
	}
	return nil
}

// Tab switches to screen n (1-4)
func (tf *TUITestFramework) Tab(n int) error {
	tf.t.Helper()
	return tf.SendKeys(fmt.Sprint(n))
}

// Ready waits for the app to print its ready marker
func (tf *TUITestFramework) Ready() bool {
	tf.t.Helper()
	return tf.OutputContains("__READY__", 5*time.Second)
}

// SeePlain waits for text to appear in the normalized output
func (tf *TUITestFramework) SeePlain(text string) bool {
	tf.t.Helper()
	return tf.OutputContainsPlain(text, 3*time.Second)
}

// Mark returns the current output length, for use with SeePlainAfter
func (tf *TUITestFramework) Mark() int {
	tf.t.Helper()
	return len(tf.SnapshotPlain())
}

// SeePlainAfter waits for text to appear in the normalized output written
// after mark
func (tf *TUITestFramework) SeePlainAfter(mark int, text string) bool {
	tf.t.Helper()
	return tf.WaitFor(func(s string) bool {
		plain := ansiRe.ReplaceAllString(s, "")
		return len(plain) > mark && strings.Contains(plain[mark:], text)
	}, 3*time.Second)
}

// OutputContains waits for text in the raw output
func (tf *TUITestFramework) OutputContains(text string, timeout time.Duration) bool {
	tf.t.Helper()
	return tf.WaitFor(func(s string) bool { return strings.Contains(s, text) }, timeout)
}

// OutputContainsPlain waits for text in the normalized output
func (tf *TUITestFramework) OutputContainsPlain(text string, timeout time.Duration) bool {
	tf.t.Helper()
	return tf.WaitFor(func(s string) bool {
		return strings.Contains(ansiRe.ReplaceAllString(s, ""), text)
	}, timeout)
}

// WaitFor polls the output until pred holds or timeout passes
func (tf *TUITestFramework) WaitFor(pred func(string) bool, timeout time.Duration) bool {
	tf.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if pred(tf.Snapshot()) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// Snapshot returns everything captured so far, oldest first
func (tf *TUITestFramework) Snapshot() string {
	tf.t.Helper()
	tf.mu.Lock()
	defer tf.mu.Unlock()

	if !tf.full {
		return string(tf.buf[:tf.head])
	}
	out := make([]byte, 0, ringSize)
	out = append(out, tf.buf[tf.head:]...)
	out = append(out, tf.buf[:tf.head]...)
	return string(out)
}

// SnapshotPlain is Snapshot with escape sequences removed
func (tf *TUITestFramework) SnapshotPlain() string {
	tf.t.Helper()
	return ansiRe.ReplaceAllString(tf.Snapshot(), "")
}

// DumpTailOnFail saves the last n bytes of normalized output for debugging
func (tf *TUITestFramework) DumpTailOnFail(t *testing.T, name string, n int) {
	tf.t.Helper()
	s := tf.SnapshotPlain()
	if len(s) > n {
		s = s[len(s)-n:]
	}
	p := filepath.Join(t.TempDir(), name+".txt")
	_ = os.WriteFile(p, []byte(s), 0o644)
	t.Logf("Saved tail to %s", p)
}

// Cleanup closes the PTY, kills the app and removes the workspace
func (tf *TUITestFramework) Cleanup() {
	if tf.pty != nil {
		_ = tf.pty.Close()
		tf.pty = nil
	}
	if tf.cmd != nil && tf.cmd.Process != nil {
		_ = tf.cmd.Process.Kill()
		_, _ = tf.cmd.Process.Wait()
		tf.cmd = nil
	}
	if tf.workspace != "" {
		_ = os.RemoveAll(tf.workspace)
		tf.workspace = ""
	}
}
