// Package sysio provides a thin afero-backed file I/O abstraction shared
// by the IPC Workspace and any other component that needs testable file
// access (a real OS filesystem in production, an in-memory one in tests).
package sysio

import (
	"os"

	"github.com/spf13/afero"

	"github.com/korcankaraokcu/pince/domain"
)

// Ensure ioFileService implements domain.IOServiceIface.
var _ domain.IOServiceIface = (*ioFileService)(nil)

type ioFileService struct {
	fsType domain.IOServiceType
	appFs  afero.Fs
}

// NewIOService constructs the file I/O abstraction for the requested
// backing type.
func NewIOService(t domain.IOServiceType) domain.IOServiceIface {
	switch t {
	case domain.IOOsFileService:
		return &ioFileService{fsType: t, appFs: afero.NewOsFs()}
	case domain.IOMemFileService:
		return &ioFileService{fsType: t, appFs: afero.NewMemMapFs()}
	default:
		return &ioFileService{fsType: domain.IOOsFileService, appFs: afero.NewOsFs()}
	}
}

func (s *ioFileService) Type() domain.IOServiceType {
	return s.fsType
}

func (s *ioFileService) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(s.appFs, path)
}

func (s *ioFileService) WriteFile(path string, data []byte, perm uint32) error {
	return afero.WriteFile(s.appFs, path, data, os.FileMode(perm))
}

func (s *ioFileService) Truncate(path string) error {
	return afero.WriteFile(s.appFs, path, []byte{}, 0666)
}

func (s *ioFileService) MkdirAll(path string, perm uint32) error {
	return s.appFs.MkdirAll(path, os.FileMode(perm))
}

func (s *ioFileService) Remove(path string) error {
	return s.appFs.Remove(path)
}
