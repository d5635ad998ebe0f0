package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"ntf/internal/config"
	apphttp "ntf/internal/http"
	"ntf/internal/http/controller"
	"ntf/internal/queue/rabbitmq"
	"ntf/internal/service/notify"
	"ntf/internal/sse"
	"ntf/internal/store/memory"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{MaxMessageLength: 10, OTELServiceName: "ntf-test"}
	logger := zap.NewNop()
	hub := sse.NewHub()
	publisher := rabbitmq.NewPublisher(cfg, logger)
	svc := notify.NewService(cfg, memory.New(logger), hub, publisher, logger)
	handler := controller.NewHandler(cfg, svc, hub, logger, publisher)

	server := httptest.NewServer(apphttp.NewRouter(cfg, handler, logger))
	t.Cleanup(server.Close)
	return server
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "ntf", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"list", "create", "get", "ack", "delete"} {
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Setenv("NTF_URL", "")
	cmd := NewRootCommand()

	urlFlag := cmd.PersistentFlags().Lookup("url")
	require.NotNil(t, urlFlag)
	assert.Equal(t, defaultURL, urlFlag.DefValue)

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestURLFromEnvironment(t *testing.T) {
	t.Setenv("NTF_URL", "http://ntf.example:8080")
	cmd := NewRootCommand()
	assert.Equal(t, "http://ntf.example:8080", cmd.PersistentFlags().Lookup("url").DefValue)
}

func TestTextWorkflow(t *testing.T) {
	server := newAPIServer(t)

	code, out, _ := run(t, "--url", server.URL, "create", "hi")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "created: {ID:1 Message:hi Ack:false}\n", out)

	code, out, _ = run(t, "--url", server.URL, "ack", "1")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "acknowledged: {ID:1 Message:hi Ack:true}\n", out)

	code, out, _ = run(t, "--url", server.URL, "get", "1")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "{ID:1 Message:hi Ack:true}\n", out)

	code, out, _ = run(t, "--url", server.URL, "list")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "notifications = [{ID:1 Message:hi Ack:true}]\n", out)

	code, out, _ = run(t, "--url", server.URL, "delete", "1")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "deleted: {ID:1 Message:hi Ack:true}\n", out)

	code, out, _ = run(t, "--url", server.URL, "get", "1")
	require.Equal(t, ExitFailure, code)
	assert.Contains(t, out, "Error [NOT_FOUND]")
}

func TestJSONOutput(t *testing.T) {
	server := newAPIServer(t)

	code, out, _ := run(t, "--url", server.URL, "--format", "json", "create", "hello")
	require.Equal(t, ExitSuccess, code)
	assert.JSONEq(t, `{"status":"ok","data":{"id":1,"message":"hello","ack":false}}`, out)

	code, out, _ = run(t, "--url", server.URL, "--format", "json", "delete", "5")
	require.Equal(t, ExitFailure, code)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, map[string]any{"id": float64(5)}, resp.Error.Details)

	code, out, _ = run(t, "--url", server.URL, "--format", "json", "create", "far too long message")
	require.Equal(t, ExitFailure, code)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, ErrCodePayload, resp.Error.Code)
}

func TestCommandErrors(t *testing.T) {
	t.Run("invalid format", func(t *testing.T) {
		code, _, stderr := run(t, "--format", "yaml", "list")
		assert.Equal(t, ExitCommandError, code)
		assert.Contains(t, stderr, "invalid format")
	})

	t.Run("missing argument", func(t *testing.T) {
		code, _, stderr := run(t, "get")
		assert.Equal(t, ExitCommandError, code)
		assert.Contains(t, stderr, "accepts 1 arg")
	})

	t.Run("invalid id", func(t *testing.T) {
		code, out, _ := run(t, "ack", "abc")
		assert.Equal(t, ExitCommandError, code)
		assert.Contains(t, out, ErrCodeInvalidArgument)
	})

	t.Run("unreachable server", func(t *testing.T) {
		server := httptest.NewServer(nil)
		url := server.URL
		server.Close()

		code, out, _ := run(t, "--url", url, "list")
		assert.Equal(t, ExitCommandError, code)
		assert.Contains(t, out, ErrCodeRequest)
	})
}

func TestVerboseLogsToStderr(t *testing.T) {
	server := newAPIServer(t)

	code, out, stderr := run(t, "--url", server.URL, "--format", "json", "-v", "list")
	require.Equal(t, ExitSuccess, code)
	assert.JSONEq(t, `{"status":"ok","data":[]}`, out)
	assert.Contains(t, stderr, "running list")
}
