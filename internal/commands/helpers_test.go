package commands

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/diogo/ragchat/internal/api"
	"github.com/diogo/ragchat/internal/chat"
	"github.com/diogo/ragchat/internal/config"
	"github.com/diogo/ragchat/internal/storage"
	"github.com/diogo/ragchat/internal/tui"
)

type fakeTUI struct {
	ctrl *chat.Controller
	opts tui.ViewOptions
	err  error
}

func (f *fakeTUI) RunChat(ctx context.Context, ctrl *chat.Controller, opts tui.ViewOptions, logger *zap.Logger) error {
	f.ctrl = ctrl
	f.opts = opts
	return f.err
}

type fakeServe struct {
	addr    string
	handler http.Handler
	err     error
}

func (f *fakeServe) run(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	f.addr = addr
	f.handler = handler
	return f.err
}

// testDeps returns dependencies backed by mocks
func testDeps(client *api.MockClient, store storage.Store) *Dependencies {
	deps := &Dependencies{
		Store: store,
		TUI:   &fakeTUI{},
		Serve: (&fakeServe{}).run,
	}
	if client != nil {
		deps.Client = client
	}
	return deps
}

// isolate points config and state at a temp dir and clears env overrides
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("RAGCHAT_HOME", home)
	for _, key := range []string{"RAGCHAT_API_URL", "VITE_API_URL", "OPENAI_API_KEY", "GEMINI_API_KEY", "PORT", "RAGCHAT_SERVER_ADDR", "GLAMOUR_STYLE"} {
		t.Setenv(key, "")
	}

	oldTTY := stdoutIsTTY
	stdoutIsTTY = func() bool { return false }
	t.Cleanup(func() {
		stdoutIsTTY = oldTTY
		cfg = config.DefaultConfig()
		logger = zap.NewNop()
	})
	return home
}

// execute runs a fresh command tree with args
func execute(t *testing.T, deps *Dependencies, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()

	root := NewRootCmd(deps)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	if stdin != nil {
		root.SetIn(stdin)
	}
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}
