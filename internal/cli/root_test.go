package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BooManLag/trippit-app-sub000/internal/catalog"
	"github.com/BooManLag/trippit-app-sub000/internal/domain"
	"github.com/BooManLag/trippit-app-sub000/internal/repo"
)

// execute runs badgectl with args against dbPath and returns stdout.
func execute(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--db", dbPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "badges.db")
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "badgectl", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"migrate", "seed", "catalog", "check", "awards", "progress"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("db"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, tempDB(t), "--format", "yaml", "catalog", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestMigrateAndSeed(t *testing.T) {
	path := tempDB(t)

	out, err := execute(t, path, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrated")

	out, err = execute(t, path, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded")

	// Idempotent.
	_, err = execute(t, path, "seed")
	require.NoError(t, err)

	db, err := repo.OpenSQLite(path)
	require.NoError(t, err)
	rows, err := repo.ListBadges(context.Background(), db)
	require.NoError(t, err)
	assert.Len(t, rows, len(catalog.DefaultDefinitions))
}

func TestCatalogList(t *testing.T) {
	path := tempDB(t)

	out, err := execute(t, path, "catalog", "list")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "KEY"))
	assert.Contains(t, out, "daredevil")

	out, err = execute(t, path, "--format", "json", "catalog", "list", "--family", "dare")
	require.NoError(t, err)
	var badges []domain.Badge
	require.NoError(t, json.Unmarshal([]byte(out), &badges))
	require.NotEmpty(t, badges)
	for _, b := range badges {
		assert.Equal(t, domain.Family("dare"), b.Family)
	}
}

func TestCheckRequiresUser(t *testing.T) {
	_, err := execute(t, tempDB(t), "check", "dare")
	require.Error(t, err)
}

func TestCheckUnknownFamily(t *testing.T) {
	_, err := execute(t, tempDB(t), "check", "bogus", "--user", "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestCheckAwardsAndLists(t *testing.T) {
	path := tempDB(t)
	_, err := execute(t, path, "migrate")
	require.NoError(t, err)

	db, err := repo.OpenSQLite(path)
	require.NoError(t, err)
	start := time.Now().Add(72 * time.Hour)
	require.NoError(t, db.Create(&domain.Trip{ID: "trip-1", OwnerID: "u1", Name: "Lisbon", StartDate: &start}).Error)
	done := time.Now()
	require.NoError(t, db.Create(&domain.BucketListItem{ID: "d1", UserID: "u1", TripID: "trip-1", Title: "dare", CompletedAt: &done}).Error)
	require.NoError(t, db.Create(&domain.BucketListItem{ID: "d2", UserID: "u1", TripID: "trip-1", Title: "dare"}).Error)
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	out, err := execute(t, path, "--format", "json", "check", "DARE", "--user", "u1", "--trip", "trip-1")
	require.NoError(t, err)
	var rep struct {
		NewlyAwarded []string `json:"newly_awarded"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, []string{"daredevil"}, rep.NewlyAwarded)

	out, err = execute(t, path, "check", "dare", "--user", "u1", "--trip", "trip-1")
	require.NoError(t, err)
	assert.Equal(t, "no new badges\n", out)

	out, err = execute(t, path, "awards", "--user", "u1", "--trip", "trip-1")
	require.NoError(t, err)
	assert.Contains(t, out, "daredevil")
	assert.Contains(t, out, "trip-1")

	out, err = execute(t, path, "progress", "--user", "u1", "--trip", "trip-1")
	require.NoError(t, err)
	assert.Contains(t, out, "daredevil")
	assert.Contains(t, out, "1/1")
}

func TestTripLabel(t *testing.T) {
	assert.Equal(t, "(global)", tripLabel(""))
	assert.Equal(t, "trip-1", tripLabel("trip-1"))
}
