// Package process implements the Process Probe (C1): non-intrusive
// attach-testing and tracer detection against a target pid.
package process

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/korcankaraokcu/pince/domain"
)

// settleDelay is the pause after a probe ATTACH/DETACH pulse, giving the
// target time to re-stabilize before any real attach is attempted.
const settleDelay = 10 * time.Millisecond

type processProbeService struct{}

// NewProcessProbeService constructs C1.
func NewProcessProbeService() domain.ProcessProbeServiceIface {
	return &processProbeService{}
}

// CanAttach invokes ptrace ATTACH on pid; on success it waits for the stop,
// ptrace DETACHes, and sleeps briefly to let the target re-stabilize. On
// ATTACH failure (permission, nonexistent pid) it returns false. The target
// is never left stopped.
func (p *processProbeService) CanAttach(pid uint32) bool {
	ipid := int(pid)

	if err := unix.PtraceAttach(ipid); err != nil {
		logrus.Debugf("probe: ptrace attach %d failed: %v", pid, err)
		return false
	}

	var ws unix.WaitStatus
	if _, err := unix.Wait4(ipid, &ws, 0, nil); err != nil {
		logrus.Debugf("probe: wait4 %d failed: %v", pid, err)
		unix.PtraceDetach(ipid)
		return false
	}

	if err := unix.PtraceDetach(ipid); err != nil {
		logrus.Debugf("probe: ptrace detach %d failed: %v", pid, err)
		return false
	}

	time.Sleep(settleDelay)

	return true
}

// IsTraced reads /proc/<pid>/status and returns the TracerPid field's
// resolved process name, if a tracer is currently attached.
func (p *processProbeService) IsTraced(pid uint32) (string, bool) {
	status, err := readStatus(pid)
	if err != nil {
		return "", false
	}

	tracerPidStr, ok := status["TracerPid"]
	if !ok {
		return "", false
	}

	tracerPid, err := strconv.Atoi(tracerPidStr)
	if err != nil || tracerPid == 0 {
		return "", false
	}

	tracerStatus, err := readStatus(uint32(tracerPid))
	if err != nil {
		return fmt.Sprintf("pid %d", tracerPid), true
	}

	if name, ok := tracerStatus["Name"]; ok {
		return name, true
	}

	return fmt.Sprintf("pid %d", tracerPid), true
}

// IsValid reports whether pid still names a live process, probed with
// signal 0 (no actual signal delivered). Pid 0 (no target) is never valid.
func (p *processProbeService) IsValid(pid uint32) bool {
	if pid == 0 {
		return false
	}
	err := syscall.Kill(int(pid), 0)
	return err == nil
}

// readStatus parses /proc/<pid>/status into a field-name -> value map,
// trimming surrounding whitespace from each value.
func readStatus(pid uint32) (map[string]string, error) {
	filename := fmt.Sprintf("/proc/%d/status", pid)
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	status := make(map[string]string)
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := s.Text()
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		status[parts[0]] = strings.TrimSpace(parts[1])
	}

	if err := s.Err(); err != nil {
		return nil, err
	}

	return status, nil
}
