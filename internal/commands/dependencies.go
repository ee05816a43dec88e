package commands

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/diogo/ragchat/internal/api"
	"github.com/diogo/ragchat/internal/chat"
	"github.com/diogo/ragchat/internal/config"
	"github.com/diogo/ragchat/internal/server"
	"github.com/diogo/ragchat/internal/storage"
	"github.com/diogo/ragchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, ctrl *chat.Controller, opts tui.ViewOptions, logger *zap.Logger) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client is the service client. When nil one is built from config.
	Client api.ChatAPI

	// Store holds the session identifier. When nil the state file is used.
	Store storage.Store

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Serve runs the HTTP service until ctx ends.
	Serve func(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, ctrl *chat.Controller, opts tui.ViewOptions, logger *zap.Logger) error {
	return tui.RunChat(ctx, ctrl, opts, logger)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:   &DefaultTUI{},
		Serve: server.Run,
	}
}

// client returns the injected client or one configured from cfg. The
// returned func releases it.
func (d *Dependencies) client(cfg config.Config) (api.ChatAPI, func(), error) {
	if d.Client != nil {
		return d.Client, func() {}, nil
	}

	c, err := api.NewClient(
		api.WithBaseURL(cfg.APIURL),
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}

// store returns the injected store or the state file store
func (d *Dependencies) store() (storage.Store, error) {
	if d.Store != nil {
		return d.Store, nil
	}
	path, err := config.GetStatePath()
	if err != nil {
		return nil, err
	}
	return storage.NewFileStore(path), nil
}

// newController wires a controller for one command run
func (d *Dependencies) newController(cfg config.Config) (*chat.Controller, func(), error) {
	client, release, err := d.client(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := d.store()
	if err != nil {
		release()
		return nil, nil, err
	}
	return chat.New(client, store, chat.WithLogger(logger)), release, nil
}
