package mcp

import (
	"context"

	"github.com/ganot/knitpick/internal/domain/project"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *sdkmcp.Server, svc ProjectService) {
	// Projects
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all projects with both counters, in creation order",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ListProjectsResponse, error) {
		return nil, ListProjectsResponse{Projects: toProjectResponses(svc.List(ctx))}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get one project by id",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ProjectIDParams) (*sdkmcp.CallToolResult, ProjectResponse, error) {
		proj, err := svc.Get(ctx, in.ID)
		if err != nil {
			return nil, ProjectResponse{}, toolError(err)
		}
		return nil, toProjectResponse(*proj), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_project",
		Description: "Create a project with two counters starting at zero",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddProjectParams) (*sdkmcp.CallToolResult, ProjectResponse, error) {
		proj, err := svc.Create(ctx, project.CreateRequest{
			ID:          in.ID,
			Name:        in.Name,
			Color:       in.Color,
			FirstLabel:  in.FirstLabel,
			SecondLabel: in.SecondLabel,
		})
		if err != nil {
			return nil, ProjectResponse{}, toolError(err)
		}
		return nil, toProjectResponse(*proj), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project and its counters",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ProjectIDParams) (*sdkmcp.CallToolResult, DeleteProjectResponse, error) {
		if err := svc.Delete(ctx, in.ID); err != nil {
			return nil, DeleteProjectResponse{}, toolError(err)
		}
		return nil, DeleteProjectResponse{ID: in.ID, Deleted: true}, nil
	})

	// Counters
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_counter",
		Description: "Set a counter to a value; negative values are stored as 0",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateCounterParams) (*sdkmcp.CallToolResult, ProjectResponse, error) {
		return projectResult(svc.UpdateCounter(ctx, in.ID, in.Counter, in.Value))
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "increment_counter",
		Description: "Add one to a counter",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CounterParams) (*sdkmcp.CallToolResult, ProjectResponse, error) {
		return projectResult(svc.Increment(ctx, in.ID, in.Counter))
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "decrement_counter",
		Description: "Subtract one from a counter; a counter at 0 stays at 0",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CounterParams) (*sdkmcp.CallToolResult, ProjectResponse, error) {
		return projectResult(svc.Decrement(ctx, in.ID, in.Counter))
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reset_counter",
		Description: "Set a counter back to 0",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CounterParams) (*sdkmcp.CallToolResult, ProjectResponse, error) {
		return projectResult(svc.Reset(ctx, in.ID, in.Counter))
	})

	// Palette
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_colors",
		Description: "List the colors offered for new projects; the first is the default",
	}, func(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ListColorsResponse, error) {
		palette := svc.Palette()
		colors := make([]ColorResponse, 0, len(palette))
		for _, c := range palette {
			colors = append(colors, ColorResponse{Name: c.Name, Value: c.Value})
		}
		return nil, ListColorsResponse{Colors: colors}, nil
	})
}

func projectResult(proj *project.Project, err error) (*sdkmcp.CallToolResult, ProjectResponse, error) {
	if err != nil {
		return nil, ProjectResponse{}, toolError(err)
	}
	return nil, toProjectResponse(*proj), nil
}
