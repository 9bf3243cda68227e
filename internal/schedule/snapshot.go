// Package schedule builds and serves the date-keyed schedule snapshot.
package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// Entry is one game descriptor inside the snapshot.
type Entry struct {
	Week    int    `json:"week,omitempty"`
	Home    string `json:"home"`
	Away    string `json:"away"`
	Kickoff string `json:"kickoff"`
	Venue   string `json:"venue,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Status  string `json:"status,omitempty"`
}

// Snapshot maps calendar dates (YYYY-MM-DD) to that day's games, ordered by
// kickoff time.
type Snapshot map[string][]Entry

// DayGamesFetcher fetches the games scheduled on one date.
type DayGamesFetcher interface {
	GamesForDate(ctx context.Context, date time.Time) ([]datasource.GameRecord, error)
}

// Builder assembles schedule snapshots from the provider.
type Builder struct {
	provider DayGamesFetcher
	logger   *logrus.Logger
}

// NewBuilder creates a new snapshot builder
func NewBuilder(provider DayGamesFetcher, logger *logrus.Logger) *Builder {
	return &Builder{provider: provider, logger: logger}
}

// Build walks the date range one day at a time and assembles the snapshot.
// A failed day is logged and skipped; the snapshot is simply missing that
// day's games.
func (b *Builder) Build(ctx context.Context, from, to time.Time) (Snapshot, error) {
	out := make(Snapshot)
	total := 0

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records, err := b.provider.GamesForDate(ctx, d)
		if err != nil {
			b.logger.WithError(err).WithField("date", d.Format("2006-01-02")).
				Warn("Day fetch failed, skipping")
			continue
		}

		for i := range records {
			game := NormalizeRecord(&records[i], d)
			if game.Home == "" || game.Away == "" {
				continue
			}
			key := game.Kickoff.Format("2006-01-02")
			out[key] = append(out[key], Entry{
				Week:    game.Week,
				Home:    game.Home,
				Away:    game.Away,
				Kickoff: game.Kickoff.Format(time.RFC3339),
				Venue:   game.Venue,
				City:    game.City,
				State:   game.State,
				Status:  game.Status,
			})
			total++
		}
	}

	for key := range out {
		entries := out[key]
		sort.Slice(entries, func(i, j int) bool { return entries[i].Kickoff < entries[j].Kickoff })
		out[key] = entries
	}

	b.logger.WithFields(logrus.Fields{
		"from":  from.Format("2006-01-02"),
		"to":    to.Format("2006-01-02"),
		"games": total,
	}).Info("Schedule snapshot built")

	return out, nil
}

// NormalizeRecord converts a provider game row into the canonical Game
// shape. Records without a parseable kickoff default to 1pm local on the
// queried date.
func NormalizeRecord(rec *datasource.GameRecord, day time.Time) models.Game {
	kickoff, err := time.Parse(time.RFC3339, rec.Date)
	if err != nil {
		kickoff = time.Date(day.Year(), day.Month(), day.Day(), 13, 0, 0, 0, day.Location())
	}

	game := models.Game{
		Home:    models.CanonicalAbbr(rec.HomeAbbr()),
		Away:    models.CanonicalAbbr(rec.AwayAbbr()),
		Kickoff: kickoff,
		Status:  rec.Status,
		TV:      rec.TV,
		Venue:   rec.Venue,
		City:    rec.City,
		State:   rec.State,
	}
	if w, ok := rec.WeekNumber(); ok {
		game.Week = int(w)
	}
	if hs, ok := rec.HomePoints(); ok {
		game.HomeScore = &hs
	}
	if as, ok := rec.AwayPoints(); ok {
		game.AwayScore = &as
	}
	return game
}

// Write persists a snapshot to disk, creating parent directories as needed.
func Write(path string, snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot from disk. A missing file yields an empty snapshot,
// which is a valid, if bare, schedule.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return snap, nil
}

// GamesOn returns the snapshot's games for one date as canonical Games.
func (s Snapshot) GamesOn(date string) []models.Game {
	entries := s[date]
	games := make([]models.Game, 0, len(entries))
	for _, e := range entries {
		kickoff, err := time.Parse(time.RFC3339, e.Kickoff)
		if err != nil {
			continue
		}
		games = append(games, models.Game{
			Home:    models.CanonicalAbbr(e.Home),
			Away:    models.CanonicalAbbr(e.Away),
			Kickoff: kickoff,
			Week:    e.Week,
			Status:  e.Status,
			Venue:   e.Venue,
			City:    e.City,
			State:   e.State,
		})
	}
	return games
}
