package mcp

import "github.com/ganot/knitpick/internal/domain/project"

type ProjectIDParams struct {
	ID string `json:"id" jsonschema:"project id"`
}

type AddProjectParams struct {
	ID          string `json:"id,omitempty" jsonschema:"project id, generated when omitted"`
	Name        string `json:"name" jsonschema:"project name"`
	Color       string `json:"color,omitempty" jsonschema:"display color, see list_colors"`
	FirstLabel  string `json:"first_label,omitempty" jsonschema:"label of counter 0"`
	SecondLabel string `json:"second_label,omitempty" jsonschema:"label of counter 1"`
}

type CounterParams struct {
	ID      string `json:"id" jsonschema:"project id"`
	Counter int    `json:"counter" jsonschema:"counter index, 0 or 1"`
}

type UpdateCounterParams struct {
	ID      string `json:"id" jsonschema:"project id"`
	Counter int    `json:"counter" jsonschema:"counter index, 0 or 1"`
	Value   int    `json:"value" jsonschema:"new value, negative values are stored as 0"`
}

type EmptyParams struct{}

type CounterResponse struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

type ProjectResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Color    string            `json:"color"`
	Counters []CounterResponse `json:"counters"`
}

type ListProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

type DeleteProjectResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type ColorResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ListColorsResponse struct {
	Colors []ColorResponse `json:"colors"`
}

func toProjectResponse(p project.Project) ProjectResponse {
	counters := make([]CounterResponse, 0, len(p.Counters))
	for _, c := range p.Counters {
		counters = append(counters, CounterResponse{Label: c.Label, Value: c.Value})
	}
	return ProjectResponse{ID: p.ID, Name: p.Name, Color: p.Color, Counters: counters}
}

func toProjectResponses(list []project.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProjectResponse(p))
	}
	return out
}
