package project

// DefaultPalette is offered when creating a project. The first entry is the
// default color.
var DefaultPalette = []Color{
	{Name: "Hot Pink", Value: "#ff69b4"},
	{Name: "Light Pink", Value: "#ffb6c1"},
	{Name: "Deep Pink", Value: "#ff1493"},
	{Name: "Pink", Value: "#ffc0cb"},
	{Name: "Pale Pink", Value: "#fadadd"},
	{Name: "Rose", Value: "#ff66b2"},
}

// Labels front ends suggest for new projects.
const (
	DefaultFirstLabel  = "Rounds"
	DefaultSecondLabel = "Needles"
)

// Labels stored when a label is left empty.
const (
	fallbackFirstLabel  = "Counter 1"
	fallbackSecondLabel = "Counter 2"
)
