package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance-service/internal/models"
)

func record(regNo, sessionID string, category models.Category) *models.AttendanceRecord {
	return &models.AttendanceRecord{
		ID:        "id-" + regNo,
		RegNo:     regNo,
		SessionID: sessionID,
		Category:  category,
	}
}

func TestSessionCache(t *testing.T) {
	const sessionID = "2025-12-09-session-0"

	t.Run("unknown session is not trusted", func(t *testing.T) {
		c := New()

		present, known := c.Contains(sessionID, "URK24CS7095")
		assert.False(t, known)
		assert.False(t, present)
		assert.False(t, c.Known(sessionID))
	})

	t.Run("add creates the session entry", func(t *testing.T) {
		c := New()

		c.Add(sessionID, "URK24CS7095", record("URK24CS7095", sessionID, models.CategoryOD))

		present, known := c.Contains(sessionID, "URK24CS7095")
		assert.True(t, known)
		assert.True(t, present)

		rec := c.Record(sessionID, "URK24CS7095")
		require.NotNil(t, rec)
		assert.Equal(t, models.CategoryOD, rec.Category)
	})

	t.Run("remove keeps the entry so negatives stay trusted", func(t *testing.T) {
		c := New()

		c.Add(sessionID, "URK24CS7095", nil)
		c.Remove(sessionID, "URK24CS7095")

		present, known := c.Contains(sessionID, "URK24CS7095")
		assert.True(t, known)
		assert.False(t, present)
		assert.Equal(t, 0, c.Size(sessionID))
	})

	t.Run("replace swaps full membership", func(t *testing.T) {
		c := New()

		c.Add(sessionID, "STALE0001", nil)

		c.ReplaceSession(sessionID, []*models.AttendanceRecord{
			record("URK24CS7095", sessionID, models.CategoryLab),
			record("URK23CM4059", sessionID, models.CategoryScholarship),
		})

		present, _ := c.Contains(sessionID, "STALE0001")
		assert.False(t, present)
		assert.Equal(t, 2, c.Size(sessionID))

		rec := c.Record(sessionID, "URK23CM4059")
		require.NotNil(t, rec)
		assert.Equal(t, models.CategoryScholarship, rec.Category)
	})

	t.Run("replace normalizes member keys", func(t *testing.T) {
		c := New()

		c.ReplaceSession(sessionID, []*models.AttendanceRecord{
			record("urk24cs7095", sessionID, models.CategoryLab),
		})

		present, known := c.Contains(sessionID, Key("  urk24cs7095 "))
		assert.True(t, known)
		assert.True(t, present)
	})

	t.Run("clear drops the session entry", func(t *testing.T) {
		c := New()

		c.Add(sessionID, "URK24CS7095", nil)
		c.Clear(sessionID)

		assert.False(t, c.Known(sessionID))
	})

	t.Run("reset drops everything", func(t *testing.T) {
		c := New()

		c.Add(sessionID, "URK24CS7095", nil)
		c.Add("2025-12-10-session-1", "URK23CM4059", nil)
		c.Reset()

		assert.False(t, c.Known(sessionID))
		assert.False(t, c.Known("2025-12-10-session-1"))
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "URK24CS7095", Key("  urk24cs7095\t"))
	assert.Equal(t, "", Key("   "))
}

func TestSessionCache_Concurrent(t *testing.T) {
	c := New()
	const sessionID = "2025-12-09-session-0"

	const goroutines = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()

			key := fmt.Sprintf("URK24CS%04d", i)
			c.Add(sessionID, key, nil)
			c.Contains(sessionID, key)
			if i%2 == 0 {
				c.Remove(sessionID, key)
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, goroutines/2, c.Size(sessionID))
}
