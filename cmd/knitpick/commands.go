package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/ganot/knitpick/internal/domain/project"
	"github.com/ganot/knitpick/internal/metrics"
)

// withProjects opens the configured store for one command and flushes it
// before returning, so a one-shot command exits with its change written.
func (g *Global) withProjects(fn func(ctx context.Context, svc *project.Service) error) (err error) {
	ctx := context.Background()
	p, err := openProjects(ctx, g.Config, g.Logger, metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := p.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(ctx, p.svc)
}

// ListCmd implements the 'list' command.
type ListCmd struct {
	JSON bool `help:"Print the stored JSON list"`
}

func (c *ListCmd) Run(g *Global) error {
	return g.withProjects(func(ctx context.Context, svc *project.Service) error {
		list := svc.List(ctx)
		if c.JSON {
			enc := json.NewEncoder(g.Out)
			enc.SetIndent("", "  ")
			return enc.Encode(list)
		}
		if len(list) == 0 {
			_, err := fmt.Fprintln(g.Out, "no projects")
			return err
		}
		tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCOLOR\tCOUNTER 0\tCOUNTER 1")
		for _, p := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Color, formatCounter(p.Counters[0]), formatCounter(p.Counters[1]))
		}
		return tw.Flush()
	})
}

// AddCmd implements the 'add' command.
type AddCmd struct {
	Name   string `arg:"" help:"Project name"`
	ID     string `help:"Project id (generated when omitted)"`
	First  string `help:"Label of counter 0" default:"${first_label}"`
	Second string `help:"Label of counter 1" default:"${second_label}"`
	Color  string `help:"Display color (see 'colors'); defaults to the first palette entry"`
}

func (c *AddCmd) Run(g *Global) error {
	return g.withProjects(func(ctx context.Context, svc *project.Service) error {
		p, err := svc.Create(ctx, project.CreateRequest{
			ID:          c.ID,
			Name:        c.Name,
			Color:       c.Color,
			FirstLabel:  c.First,
			SecondLabel: c.Second,
		})
		if err != nil {
			return err
		}
		return printProject(g, *p)
	})
}

// CounterArgs addresses one counter of one project.
type CounterArgs struct {
	ID      string `arg:"" help:"Project id"`
	Counter int    `arg:"" help:"Counter index (0 or 1)"`
}

// IncCmd implements the 'inc' command.
type IncCmd struct {
	CounterArgs `embed:""`
}

func (c *IncCmd) Run(g *Global) error {
	return g.updateCounter(func(ctx context.Context, svc *project.Service) (*project.Project, error) {
		return svc.Increment(ctx, c.ID, c.Counter)
	})
}

// DecCmd implements the 'dec' command.
type DecCmd struct {
	CounterArgs `embed:""`
}

func (c *DecCmd) Run(g *Global) error {
	return g.updateCounter(func(ctx context.Context, svc *project.Service) (*project.Project, error) {
		return svc.Decrement(ctx, c.ID, c.Counter)
	})
}

// ResetCmd implements the 'reset' command.
type ResetCmd struct {
	CounterArgs `embed:""`
}

func (c *ResetCmd) Run(g *Global) error {
	return g.updateCounter(func(ctx context.Context, svc *project.Service) (*project.Project, error) {
		return svc.Reset(ctx, c.ID, c.Counter)
	})
}

// SetCmd implements the 'set' command.
type SetCmd struct {
	CounterArgs `embed:""`
	Value int `arg:"" help:"New value; negative values are stored as 0"`
}

func (c *SetCmd) Run(g *Global) error {
	return g.updateCounter(func(ctx context.Context, svc *project.Service) (*project.Project, error) {
		return svc.UpdateCounter(ctx, c.ID, c.Counter, c.Value)
	})
}

func (g *Global) updateCounter(fn func(context.Context, *project.Service) (*project.Project, error)) error {
	return g.withProjects(func(ctx context.Context, svc *project.Service) error {
		p, err := fn(ctx, svc)
		if err != nil {
			return err
		}
		return printProject(g, *p)
	})
}

// DeleteCmd implements the 'delete' command.
type DeleteCmd struct {
	ID string `arg:"" help:"Project id"`
}

func (c *DeleteCmd) Run(g *Global) error {
	return g.withProjects(func(ctx context.Context, svc *project.Service) error {
		if err := svc.Delete(ctx, c.ID); err != nil {
			return err
		}
		_, err := fmt.Fprintf(g.Out, "deleted %s\n", c.ID)
		return err
	})
}

// ColorsCmd implements the 'colors' command.
type ColorsCmd struct{}

func (c *ColorsCmd) Run(g *Global) error {
	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	for _, color := range paletteFromConfig(g.Config) {
		fmt.Fprintf(tw, "%s\t%s\n", color.Name, color.Value)
	}
	return tw.Flush()
}

// ClearCmd implements the 'clear' command. It removes the slot directly,
// without loading it.
type ClearCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation"`
}

func (c *ClearCmd) Run(g *Global) error {
	if !c.Yes {
		return fmt.Errorf("refusing to remove %q without --yes", g.Config.Storage.Key)
	}
	repo, closeRepo, err := openRepository(g.Config.Storage)
	if err != nil {
		return err
	}
	defer func() { _ = closeRepo() }()

	if err := repo.Delete(context.Background(), g.Config.Storage.Key); err != nil {
		return fmt.Errorf("clear %q: %w", g.Config.Storage.Key, err)
	}
	g.Logger.Info("durable slot cleared", "key", g.Config.Storage.Key, "backend", g.Config.Storage.Backend)
	_, err = fmt.Fprintf(g.Out, "cleared %s\n", g.Config.Storage.Key)
	return err
}

func printProject(g *Global, p project.Project) error {
	_, err := fmt.Fprintf(g.Out, "%s  %s  [%s]  %s  %s\n", p.ID, p.Name, p.Color, formatCounter(p.Counters[0]), formatCounter(p.Counters[1]))
	return err
}

func formatCounter(c project.Counter) string {
	return fmt.Sprintf("%s: %d", c.Label, c.Value)
}
