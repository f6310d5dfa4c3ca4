// Package inject implements the Injection Service (C8): dlopen/
// __libc_dlopen_mode call-injection with a fallback chain.
package inject

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/korcankaraokcu/pince/domain"
)

var resultPattern = regexp.MustCompile(`\$\d+\s*=\s*(-?\d+)`)

const rtldNow = 1

// Ensure injectService implements domain.InjectServiceIface.
var _ domain.InjectServiceIface = (*injectService)(nil)

type injectService struct {
	gateway domain.GatewayServiceIface
}

// New constructs C8, driven through the Command Gateway's call-expression
// facility.
func New(gateway domain.GatewayServiceIface) domain.InjectServiceIface {
	return &injectService{gateway: gateway}
}

// Inject calls dlopen(path, RTLD_NOW) through the debugger; if the result
// is zero or unparseable, it falls back to __libc_dlopen_mode. Success is
// a non-zero handle from either call.
func (s *injectService) Inject(libraryPath string) (bool, error) {
	if ok, err := s.call("dlopen", libraryPath); ok || err != nil {
		return ok, err
	}

	return s.call("__libc_dlopen_mode", libraryPath)
}

func (s *injectService) call(fn, libraryPath string) (bool, error) {
	cmd := fmt.Sprintf(`print (long) %s("%s", %d)`, fn, libraryPath, rtldNow)

	resp, ok := s.gateway.SendCommand(cmd, domain.CommandOptions{CLIOutput: true})
	if !ok {
		return false, fmt.Errorf("inject: %s: gateway rejected command", fn)
	}

	m := resultPattern.FindStringSubmatch(resp.Text)
	if m == nil {
		logrus.Debugf("inject: %s: unparseable result %q", fn, resp.Text)
		return false, nil
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return false, nil
	}

	return n != 0, nil
}

// AdvancedInject is a reserved no-op.
func (s *injectService) AdvancedInject(libraryPath string) error {
	return domain.ErrNotImplemented
}
