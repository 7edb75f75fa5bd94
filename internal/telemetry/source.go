package telemetry

import (
	"context"
	"fmt"
)

// Source is what the main API needs from an upstream telemetry system.
type Source interface {
	FetchWells(ctx context.Context) ([]Snapshot, error)
	FetchSnapshot(ctx context.Context, wellID string) (Snapshot, error)
	FetchSeries(ctx context.Context, wellID string, window SeriesWindow) (Series, error)
	FetchHealth(ctx context.Context) (HealthReport, error)
}

var (
	_ Source = (*Generator)(nil)
	_ Source = (*FixedClient)(nil)
)

func (g *Generator) FetchWells(ctx context.Context) ([]Snapshot, error) {
	return g.ListWells(ctx, 0)
}

func (g *Generator) FetchSnapshot(ctx context.Context, wellID string) (Snapshot, error) {
	return g.GetWell(ctx, wellID)
}

func (g *Generator) FetchSeries(ctx context.Context, wellID string, window SeriesWindow) (Series, error) {
	if window.Hours == 0 {
		window.Hours = g.cfg.DefaultHours
	}
	if window.Points == 0 {
		window.Points = g.cfg.DefaultPoints
	}
	return g.GetTelemetry(ctx, wellID, window.Hours, window.Points)
}

func (g *Generator) FetchHealth(ctx context.Context) (HealthReport, error) {
	return g.Health(ctx)
}

func (c *FixedClient) FetchWells(ctx context.Context) ([]Snapshot, error) {
	return c.GetWellsData(ctx)
}

func (c *FixedClient) FetchSnapshot(ctx context.Context, wellID string) (Snapshot, error) {
	return c.GetWellByID(ctx, wellID)
}

// FetchSeries ignores the window; the fixed client always returns its own span.
func (c *FixedClient) FetchSeries(ctx context.Context, wellID string, _ SeriesWindow) (Series, error) {
	return c.GetWellTelemetry(ctx, wellID)
}

func (c *FixedClient) FetchHealth(ctx context.Context) (HealthReport, error) {
	return c.CheckHealth(ctx)
}

const (
	SourceFixed     = "fixed"
	SourceGenerated = "generated"
)

// NewSource picks one of the two fakes by name.
func NewSource(name string, gen *Generator, fixed *FixedClient) (Source, error) {
	switch name {
	case SourceFixed:
		return fixed, nil
	case SourceGenerated:
		return gen, nil
	}
	return nil, fmt.Errorf("unknown telemetry source %q", name)
}
