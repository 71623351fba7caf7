package project

// Store holds the project list snapshot. store.Store[[]Project] satisfies it.
type Store interface {
	Get() []Project
	Mutate(fn func([]Project) ([]Project, bool)) ([]Project, bool)
}
