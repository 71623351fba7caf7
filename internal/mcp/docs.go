package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Resource URIs.
const (
	ProjectsURI  = "knitpick://projects"
	DocsIndexURI = "knitpick://docs/index"
)

const serverInstructions = `knitpick tracks knitting and crochet progress.

Each project has a name, a display color and exactly two counters (counter 0 and counter 1, for example
rounds and needles). Counter values never go below 0.

Typical workflow:
1) list_projects to see what exists and find ids.
2) add_project to start a new piece (list_colors shows the palette).
3) increment_counter / decrement_counter while working; update_counter to jump to a value; reset_counter to start over.
4) delete_project when a piece is finished or abandoned.

Every change is saved automatically. Subscribe to knitpick://projects to be told when the list changes.
See knitpick://docs/index for details.
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         DocsIndexURI,
		Name:        "docs_index",
		Title:       "knitpick docs index",
		Description: "Tools, counters and error codes.",
		Content: `# knitpick

## Projects

A project is ` + "`{id, name, color, counters[2]}`" + `. Ids are generated when ` + "`add_project`" + ` is called
without one. Names are trimmed and must not be empty. Counter labels default to "Counter 1" and "Counter 2".
The color is free text; ` + "`list_colors`" + ` returns the suggested palette and its first entry is the default.

## Counters

Counters are addressed by index: 0 or 1.

- ` + "`increment_counter`" + ` adds one.
- ` + "`decrement_counter`" + ` subtracts one and stops at 0.
- ` + "`reset_counter`" + ` sets 0.
- ` + "`update_counter`" + ` sets any value; negative values are stored as 0.

## Errors

Tool errors start with a code:

- ` + "`PROJECT_NOT_FOUND`" + `: the id does not exist. Nothing was changed.
- ` + "`INVALID_INPUT`" + `: the project name is empty.
- ` + "`INVALID_COUNTER`" + `: the counter index is not 0 or 1.
- ` + "`DUPLICATE_ID`" + `: ` + "`add_project`" + ` was given an id that is already used.

## Live updates

` + "`" + ProjectsURI + "`" + ` returns the whole project list as JSON. Clients that subscribe to it receive
` + "`notifications/resources/updated`" + ` after every change.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}

func registerProjectsResource(server *sdkmcp.Server, svc ProjectService) {
	server.AddResource(&sdkmcp.Resource{
		URI:         ProjectsURI,
		Name:        "projects",
		Title:       "Projects",
		Description: "The full project list as stored. Subscribe to be notified of changes.",
		MIMEType:    "application/json",
	}, func(ctx context.Context, _ *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
		data, err := json.Marshal(svc.List(ctx))
		if err != nil {
			return nil, fmt.Errorf("encode projects: %w", err)
		}
		return &sdkmcp.ReadResourceResult{
			Contents: []*sdkmcp.ResourceContents{{
				URI:      ProjectsURI,
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	})
}
