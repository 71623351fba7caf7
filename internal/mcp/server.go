package mcp

import (
	"context"
	"log/slog"

	"github.com/ganot/knitpick/internal/domain/project"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	List(ctx context.Context) []project.Project
	Get(ctx context.Context, id string) (*project.Project, error)
	Delete(ctx context.Context, id string) error
	UpdateCounter(ctx context.Context, id string, idx, value int) (*project.Project, error)
	Increment(ctx context.Context, id string, idx int) (*project.Project, error)
	Decrement(ctx context.Context, id string, idx int) (*project.Project, error)
	Reset(ctx context.Context, id string, idx int) (*project.Project, error)
	Palette() []project.Color
}

// ProjectWatcher reports project list changes. store.Store[[]project.Project]
// satisfies it.
type ProjectWatcher interface {
	Subscribe(fn func([]project.Project)) (cancel func())
}

// Config contains server configuration.
type Config struct {
	Projects ProjectService
	// Watcher, when set, drives resources/updated notifications for
	// ProjectsURI. It takes over the watcher's single observer slot.
	Watcher ProjectWatcher
	Version string
	Logger  *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "knitpick",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
		SubscribeHandler: func(ctx context.Context, req *sdkmcp.SubscribeRequest) error {
			logger.DebugContext(ctx, "resource subscribed", "uri", req.Params.URI)
			return nil
		},
		UnsubscribeHandler: func(ctx context.Context, req *sdkmcp.UnsubscribeRequest) error {
			logger.DebugContext(ctx, "resource unsubscribed", "uri", req.Params.URI)
			return nil
		},
	})

	registerDocResources(server)
	registerProjectsResource(server, cfg.Projects)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	registerTools(server, cfg.Projects)

	if cfg.Watcher != nil {
		cfg.Watcher.Subscribe(func([]project.Project) {
			NotifyProjectsChanged(context.Background(), server, logger)
		})
	}

	return server
}

// NotifyProjectsChanged tells subscribed sessions that ProjectsURI changed.
func NotifyProjectsChanged(ctx context.Context, server *sdkmcp.Server, logger *slog.Logger) {
	err := server.ResourceUpdated(ctx, &sdkmcp.ResourceUpdatedNotificationParams{URI: ProjectsURI})
	if err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to notify resource subscribers", "uri", ProjectsURI, "error", err)
	}
}
