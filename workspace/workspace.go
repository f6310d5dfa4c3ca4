// Package workspace implements the IPC Workspace (C2): a per-pid scratch
// directory holding the command-script file and the send/recv/async/status
// well-known files used to talk to the debugger subprocess.
package workspace

import (
	"fmt"
	"path/filepath"

	"github.com/korcankaraokcu/pince/domain"
)

const (
	sendBlobName  = "send.blob"
	recvBlobName  = "recv.blob"
	cmdScriptName = "cmd.script"
	asyncLogName  = "async.log"
	statusName    = "status.txt"

	dirPerm  = 0777
	filePerm = 0666
)

// Ensure fileWorkspace implements domain.WorkspaceIface.
var _ domain.WorkspaceIface = (*fileWorkspace)(nil)

type fileWorkspace struct {
	pid  uint32
	root string
	io   domain.IOServiceIface
}

// New builds the workspace for pid rooted at filepath.Join(root, <pid>).
// io is the sysio abstraction; pass a mem-backed one in tests.
func New(root string, pid uint32, io domain.IOServiceIface) domain.WorkspaceIface {
	return &fileWorkspace{
		pid:  pid,
		root: filepath.Join(root, fmt.Sprintf("%d", pid)),
		io:   io,
	}
}

func (w *fileWorkspace) Pid() uint32  { return w.pid }
func (w *fileWorkspace) Root() string { return w.root }

func (w *fileWorkspace) CommandScriptPath() string { return filepath.Join(w.root, cmdScriptName) }
func (w *fileWorkspace) SendBlobPath() string      { return filepath.Join(w.root, sendBlobName) }
func (w *fileWorkspace) RecvBlobPath() string      { return filepath.Join(w.root, recvBlobName) }
func (w *fileWorkspace) AsyncLogPath() string      { return filepath.Join(w.root, asyncLogName) }
func (w *fileWorkspace) StatusPath() string        { return filepath.Join(w.root, statusName) }

// Create ensures the workspace directory and its well-known files exist.
// Idempotent: existing files are left untouched, permissions included.
func (w *fileWorkspace) Create() error {
	if err := w.io.MkdirAll(w.root, dirPerm); err != nil {
		return err
	}

	for _, path := range []string{
		w.CommandScriptPath(),
		w.SendBlobPath(),
		w.RecvBlobPath(),
		w.AsyncLogPath(),
		w.StatusPath(),
	} {
		if _, err := w.io.ReadFile(path); err != nil {
			if err := w.io.WriteFile(path, []byte{}, filePerm); err != nil {
				return err
			}
		}
	}

	return nil
}

// TruncateRecvBlob clears recv.blob so a subsequent read never observes
// stale data from a prior command.
func (w *fileWorkspace) TruncateRecvBlob() error {
	return w.io.Truncate(w.RecvBlobPath())
}

func (w *fileWorkspace) WriteCommandScript(command string) error {
	return w.io.WriteFile(w.CommandScriptPath(), []byte(command), filePerm)
}

func (w *fileWorkspace) WriteSendBlob(payload []byte) error {
	return w.io.WriteFile(w.SendBlobPath(), payload, filePerm)
}

func (w *fileWorkspace) ReadRecvBlob() ([]byte, error) {
	return w.io.ReadFile(w.RecvBlobPath())
}
