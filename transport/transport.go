// Package transport implements the Debugger Transport (C3): the exclusive
// servant of the Command Gateway, owning the long-lived debugger subprocess
// spawned under a pseudo-terminal.
package transport

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"

	"github.com/korcankaraokcu/pince/domain"
)

// Ensure ptyTransport implements domain.TransportIface.
var _ domain.TransportIface = (*ptyTransport)(nil)

type ptyTransport struct {
	mu sync.Mutex

	cmd    *exec.Cmd
	master *os.File
	reader *bufio.Reader
}

// New constructs an unstarted C3 transport.
func New() domain.TransportIface {
	return &ptyTransport{}
}

// Start launches the debugger binary under a pty, forces the C locale so
// numeric output is decimal-point stable, and disables local echo on the
// slave side. It blocks until the initial prompt fence is observed.
func (t *ptyTransport) Start(debuggerPath string, args []string, workDir string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	cmd := exec.Command(debuggerPath, args...)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), "LC_NUMERIC=C")

	master, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("transport: spawn %s: %w", debuggerPath, err)
	}

	if err := disableEcho(master); err != nil {
		master.Close()
		cmd.Process.Kill()
		return fmt.Errorf("transport: disable echo: %w", err)
	}

	t.cmd = cmd
	t.master = master
	t.reader = bufio.NewReader(master)

	if _, err := t.readUntilFenceLocked(); err != nil {
		return fmt.Errorf("transport: waiting for initial prompt: %w", err)
	}

	return nil
}

// disableEcho clears ECHO on the pty so the debugger's own echo of the
// commands we source isn't duplicated into the response stream.
func disableEcho(f *os.File) error {
	termios, err := unix.IoctlGetTermios(int(f.Fd()), unix.TCGETS)
	if err != nil {
		return err
	}

	termios.Lflag &^= unix.ECHO
	return unix.IoctlSetTermios(int(f.Fd()), unix.TCSETS, termios)
}

// Source asks the debugger to execute a command file, avoiding the
// terminal's input-length truncation. cliOutput selects the wrapper that
// routes output into the recv blob instead of in-band.
func (t *ptyTransport) Source(scriptPath string, cliOutput bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	line := fmt.Sprintf("source %s\n", scriptPath)
	if cliOutput {
		line = fmt.Sprintf("cli-output source %s\n", scriptPath)
	}

	_, err := t.master.Write([]byte(line))
	return err
}

// Control sends a single literal control character (e.g. interrupt).
func (t *ptyTransport) Control(b byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, err := t.master.Write([]byte{b})
	return err
}

// NextChunk blocks until the next fence and returns everything captured
// since the previous one, fence included, for the State Observer to scan.
func (t *ptyTransport) NextChunk() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.readUntilFenceLocked()
}

func (t *ptyTransport) readUntilFenceLocked() (string, error) {
	return readUntilFence(t.reader)
}

// readUntilFence accumulates lines from r until one contains the fence
// sentinel, returning everything read so far (fence included).
func readUntilFence(r *bufio.Reader) (string, error) {
	var sb strings.Builder

	for {
		line, err := r.ReadString('\n')
		sb.WriteString(line)
		if strings.Contains(line, domain.Fence) {
			return sb.String(), nil
		}
		if err != nil {
			return sb.String(), err
		}
	}
}

// Close sends end-of-file to the debugger and releases the pty.
func (t *ptyTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.master == nil {
		return nil
	}

	t.master.Write([]byte{0x04}) // Ctrl-D
	err := t.master.Close()

	if t.cmd != nil && t.cmd.Process != nil {
		t.cmd.Wait()
	}

	return err
}

// Reader exposes the pty master for components that need direct byte
// access rather than fence-delimited chunks.
func (t *ptyTransport) Reader() io.Reader {
	return t.master
}
