package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"directory-bridge-server/internal/picker"
)

type pickerFunc func(ctx context.Context) (string, bool, error)

func (f pickerFunc) SelectDirectory(ctx context.Context) (string, bool, error) { return f(ctx) }

// runCLI executes the root command with an isolated config directory.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	a := &app{
		stdin:  strings.NewReader(stdin),
		stdout: &stdout,
		stderr: &stderr,
		newPicker: func(picker.Options) picker.Picker {
			return pickerFunc(func(context.Context) (string, bool, error) {
				return "/picked/dir", true, nil
			})
		},
	}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestCall_WriteThenRead(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, "", "call", "writeFile",
		"--arg", "directoryPath="+dir,
		"--arg", "fileName=notes.txt",
		"--arg", "content=Hello, World!")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","result":true}`, out)

	data, err := os.ReadFile(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", string(data))

	out, err = runCLI(t, "", "call", "readFile", "--arg", "filePath="+filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","result":"Hello, World!"}`, out)
}

func TestCall_ArgsJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "a.txt"), []byte("x"), 0o644))

	argsJSON, err := json.Marshal(map[string]interface{}{"directoryPath": dir, "recursive": true})
	require.NoError(t, err)

	out, err := runCLI(t, "", "call", "listDirectory", "--args-json", string(argsJSON))
	require.NoError(t, err)

	var resp struct {
		Status string   `json:"status"`
		Result []string `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.ElementsMatch(t, []string{"sub", "sub/a.txt"}, resp.Result)
}

func TestCall_SelectDirectoryUsesPicker(t *testing.T) {
	out, err := runCLI(t, "", "call", "selectDirectory")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","result":"/picked/dir"}`, out)
}

func TestCall_ExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantBody string
	}{
		{
			name:     "failure",
			args:     []string{"call", "writeFile", "--arg", "directoryPath=/definitely/missing", "--arg", "fileName=a", "--arg", "content="},
			wantCode: exitFailure,
			wantBody: `{"status":"error","error":{"code":"INVALID_DIRECTORY","message":"Directory does not exist or is not accessible","details":null}}`,
		},
		{
			name:     "invalid argument",
			args:     []string{"call", "readFile"},
			wantCode: exitFailure,
		},
		{
			name:     "not implemented",
			args:     []string{"call", "formatDisk"},
			wantCode: exitNotImplemented,
			wantBody: `{"status":"notImplemented","method":"formatDisk"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, "", tt.args...)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, tt.wantCode, exitErr.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, out)
			}
		})
	}
}

func TestCall_YAMLOutput(t *testing.T) {
	out, err := runCLI(t, "", "call", "hasPermission", "--arg", "directoryPath="+t.TempDir(), "-o", "yaml")
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "success", decoded["status"])
	assert.Equal(t, true, decoded["result"])
}

func TestCall_BadFlags(t *testing.T) {
	_, err := runCLI(t, "", "call", "readFile", "--arg", "novalue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected key=value")

	_, err = runCLI(t, "", "call", "readFile", "-o", "xml")
	require.Error(t, err)
}

func TestBuildArgs(t *testing.T) {
	raw, err := buildArgs(&callOptions{})
	require.NoError(t, err)
	assert.Nil(t, raw)

	raw, err = buildArgs(&callOptions{argsJSON: `[1]`})
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(raw))

	raw, err = buildArgs(&callOptions{argsJSON: `{"a":1,"b":"x"}`, args: []string{"b=y=z"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1,"b":"y=z"}`, string(raw))
}

func TestServe_StdioUntilEOF(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":1,"method":"getPlatformVersion"}` + "\n"
	out, err := runCLI(t, input, "serve", "--transport", "stdio")
	require.NoError(t, err)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &resp))
	assert.Equal(t, float64(1), resp["id"])
	assert.NotEmpty(t, resp["result"])
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}

func TestConfigCommand(t *testing.T) {
	out, err := runCLI(t, "", "config", "--transport", "http", "--port", "9090")
	require.Error(t, err, "config does not take serve flags")
	assert.Empty(t, out)

	out, err = runCLI(t, "", "config", "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, out, "level: DEBUG")
	assert.Contains(t, out, "type: stdio")
}

func TestConfigCommand_EnvOverride(t *testing.T) {
	t.Setenv("DIRBRIDGE_TRANSPORT_TYPE", "http")
	out, err := runCLI(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "type: http")
}
