// Package backend reads CropGuard data from Supabase. It is the Source the
// cache facades fall back to on a miss; it never writes.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"github.com/Jaysum57/CropGuard-sub000/disease"
	"github.com/Jaysum57/CropGuard-sub000/profile"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("backend: not found")

	// ErrInvalidUserID is returned for user ids that are not UUIDs.
	ErrInvalidUserID = errors.New("backend: invalid user id")
)

// Tables names the tables read by the client.
type Tables struct {
	Profiles string
	Scans    string
	Diseases string
}

// DefaultTables matches the CropGuard schema.
var DefaultTables = Tables{
	Profiles: "profiles",
	Scans:    "scans",
	Diseases: "diseases",
}

// querier runs "select * from table where column = value" and decodes the rows into out.
// An empty column selects every row.
type querier interface {
	selectRows(table, column, value string, out any) error
}

type supabaseQuerier struct {
	client *supabase.Client
}

func (q supabaseQuerier) selectRows(table, column, value string, out any) error {
	fb := q.client.From(table).Select("*", "", false)
	if column != "" {
		fb = fb.Eq(column, value)
	}
	_, err := fb.ExecuteTo(out)
	return err
}

// Client implements profile.Source and disease.Source.
type Client struct {
	q      querier
	tables Tables
	log    *zap.Logger
}

var (
	_ profile.Source = (*Client)(nil)
	_ disease.Source = (*Client)(nil)
)

// New connects to the Supabase project at url with key.
func New(url, key string, tables Tables, log *zap.Logger) (*Client, error) {
	sb, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("backend: create supabase client: %w", err)
	}
	return newClient(supabaseQuerier{client: sb}, tables, log), nil
}

func newClient(q querier, tables Tables, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{q: q, tables: tables, log: log.Named("backend")}
}

// Profile reads the profiles row of userID.
func (c *Client) Profile(ctx context.Context, userID string) (profile.Profile, error) {
	if err := checkUser(userID); err != nil {
		return profile.Profile{}, err
	}
	if err := ctx.Err(); err != nil {
		return profile.Profile{}, err
	}

	var rows []profile.Profile
	if err := c.q.selectRows(c.tables.Profiles, "id", userID, &rows); err != nil {
		c.log.Warn("profile query failed", zap.String("user_id", userID), zap.Error(err))
		return profile.Profile{}, fmt.Errorf("backend: profile %s: %w", userID, err)
	}
	if len(rows) == 0 {
		return profile.Profile{}, fmt.Errorf("backend: profile %s: %w", userID, ErrNotFound)
	}
	return rows[0], nil
}

// Stats reads every scan of userID and summarizes them.
func (c *Client) Stats(ctx context.Context, userID string) (profile.UserStats, error) {
	if err := checkUser(userID); err != nil {
		return profile.UserStats{}, err
	}
	if err := ctx.Err(); err != nil {
		return profile.UserStats{}, err
	}

	var rows []ScanRow
	if err := c.q.selectRows(c.tables.Scans, "user_id", userID, &rows); err != nil {
		c.log.Warn("scans query failed", zap.String("user_id", userID), zap.Error(err))
		return profile.UserStats{}, fmt.Errorf("backend: scans %s: %w", userID, err)
	}
	return ComputeStats(rows), nil
}

// Diseases reads the whole reference library.
func (c *Client) Diseases(ctx context.Context) ([]disease.Disease, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []disease.Disease
	if err := c.q.selectRows(c.tables.Diseases, "", "", &rows); err != nil {
		c.log.Warn("diseases query failed", zap.Error(err))
		return nil, fmt.Errorf("backend: diseases: %w", err)
	}
	return rows, nil
}

// Disease reads one reference record.
func (c *Client) Disease(ctx context.Context, id string) (disease.Disease, error) {
	if err := ctx.Err(); err != nil {
		return disease.Disease{}, err
	}
	var rows []disease.Disease
	if err := c.q.selectRows(c.tables.Diseases, "id", id, &rows); err != nil {
		c.log.Warn("disease query failed", zap.String("disease_id", id), zap.Error(err))
		return disease.Disease{}, fmt.Errorf("backend: disease %s: %w", id, err)
	}
	if len(rows) == 0 {
		return disease.Disease{}, fmt.Errorf("backend: disease %s: %w", id, ErrNotFound)
	}
	return rows[0], nil
}

func checkUser(userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidUserID, userID)
	}
	return nil
}
