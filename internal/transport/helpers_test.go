package transport

import (
	"context"

	"directory-bridge-server/internal/dispatch"
	"directory-bridge-server/internal/errors"
	"directory-bridge-server/internal/mcp"
	"directory-bridge-server/internal/models"
)

// fakeService backs the transports with an in-memory file map.
type fakeService struct {
	files    map[string]string
	writable map[string]bool
}

func newFakeService() *fakeService {
	return &fakeService{
		files:    map[string]string{"/data/hello.txt": "Hello, World!"},
		writable: map[string]bool{"/data": true},
	}
}

func (f *fakeService) PlatformVersion() string { return "Linux test" }

func (f *fakeService) SelectDirectory(context.Context) (string, bool, *models.ErrorDetail) {
	return "", false, errors.NewDialogBusyError()
}

func (f *fakeService) HasPermission(req models.DirectoryRequest) bool {
	return f.writable[req.DirectoryPath]
}

func (f *fakeService) RequestPermission(req models.DirectoryRequest) bool {
	return f.HasPermission(req)
}

func (f *fakeService) WriteFile(req models.WriteFileRequest) *models.ErrorDetail {
	if !f.writable[req.DirectoryPath] {
		return errors.NewPermissionDeniedError()
	}
	f.files[req.DirectoryPath+"/"+req.FileName] = req.Content
	return nil
}

func (f *fakeService) ListDirectory(req models.DirectoryRequest) ([]string, bool, *models.ErrorDetail) {
	if req.DirectoryPath != "/data" {
		return nil, false, nil
	}
	return []string{"hello.txt"}, true, nil
}

func (f *fakeService) ReadFile(req models.ReadFileRequest) (string, bool, *models.ErrorDetail) {
	content, ok := f.files[req.FilePath]
	return content, ok, nil
}

func (f *fakeService) GetDirectoryDetails(models.DirectoryRequest) ([]models.DirectoryEntryDetail, bool, *models.ErrorDetail) {
	return nil, false, nil
}

func newTestRPC(svc *fakeService) (*RPCHandler, *dispatch.Dispatcher) {
	d := dispatch.New(svc)
	return NewRPCHandler(d, mcp.NewMCPProcessor(d, "0.0.0-test")), d
}
