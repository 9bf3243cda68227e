// Package directory resolves team abbreviations to provider identifiers.
package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// TeamLister fetches the full league team list.
type TeamLister interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
}

// TeamDirectory memoizes the abbreviation-to-identifier mapping for the
// lifetime of the process. A failed load is never memoized; the next call
// retries the fetch.
type TeamDirectory struct {
	provider TeamLister
	logger   *logrus.Logger

	mu    sync.Mutex
	teams map[string]string // canonical abbreviation -> provider ID
}

// NewTeamDirectory creates a new team directory
func NewTeamDirectory(provider TeamLister, logger *logrus.Logger) *TeamDirectory {
	return &TeamDirectory{
		provider: provider,
		logger:   logger,
	}
}

// load populates the map on first use. Callers must hold d.mu.
func (d *TeamDirectory) load(ctx context.Context) error {
	if d.teams != nil {
		return nil
	}

	list, err := d.provider.ListTeams(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrDirectoryUnavailable, err)
	}
	if len(list) == 0 {
		return fmt.Errorf("%w: provider returned no teams", models.ErrDirectoryUnavailable)
	}

	teams := make(map[string]string, len(list))
	for _, t := range list {
		teams[models.CanonicalAbbr(t.Abbr)] = t.ID
	}
	d.teams = teams

	metrics.DirectoryTeams.Set(float64(len(teams)))
	d.logger.WithField("teams", len(teams)).Info("Team directory loaded")
	return nil
}

// Resolve maps a team abbreviation (canonical or legacy) to its provider
// identifier. The first call loads the league team list; subsequent calls
// are served from memory.
func (d *TeamDirectory) Resolve(ctx context.Context, abbr string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.load(ctx); err != nil {
		return "", err
	}

	id, ok := d.teams[models.CanonicalAbbr(abbr)]
	if !ok {
		return "", fmt.Errorf("unknown team abbreviation %q", abbr)
	}
	return id, nil
}

// All returns the full canonical-abbreviation-to-identifier mapping, loading
// it on first use.
func (d *TeamDirectory) All(ctx context.Context) (map[string]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.load(ctx); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(d.teams))
	for abbr, id := range d.teams {
		out[abbr] = id
	}
	return out, nil
}

// Check reports whether the directory is usable, loading it if necessary.
// Used by the readiness probe.
func (d *TeamDirectory) Check(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.load(ctx)
}

// Invalidate drops the memoized mapping so the next call refetches.
func (d *TeamDirectory) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.teams = nil
}
