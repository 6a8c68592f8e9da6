// ABOUTME: Shared fixtures for CRM service tests
// ABOUTME: Opens a migrated temp database and pins the clock
package crm

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/harperreed/crmcore/db"
	"github.com/harperreed/crmcore/models"
	"github.com/harperreed/crmcore/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setupTestService(t *testing.T) (*Service, *testClock) {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "crm.db"))
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	clock := &testClock{now: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)}
	return NewService(database, WithClock(clock.Now)), clock
}

func createTestUser(t *testing.T, s *Service, email string) *models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), &models.UserFields{
		Email: patch.Value(email),
		Name:  patch.Value("Owner"),
	})
	require.NoError(t, err)
	return u
}

func TestNewServiceDefaults(t *testing.T) {
	s := NewService(nil)
	assert.NotNil(t, s.log)
	assert.Len(t, s.newID(), 36)
	assert.WithinDuration(t, time.Now(), s.timestamp(), time.Minute)
	assert.Equal(t, time.UTC, s.timestamp().Location())
}

func TestIDGenerators(t *testing.T) {
	gen, err := NewIDGenerator("ulid")
	require.NoError(t, err)
	a, b := gen(), gen()
	assert.Len(t, a, 26)
	assert.Less(t, a, b)

	gen, err = NewIDGenerator("")
	require.NoError(t, err)
	assert.NotEqual(t, gen(), gen())

	_, err = NewIDGenerator("serial")
	assert.Error(t, err)
}
