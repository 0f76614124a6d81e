package telemetrydb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marioney/fdas3/internal/ahrs400"
	"github.com/marioney/fdas3/internal/vcmdas1"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "telemetry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenMigratesSchema(t *testing.T) {
	db := openTestDB(t)

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)

	// Opening again must be a no-op, not a failure.
	require.NoError(t, db.MigrateUp())
}

func TestInsertAndQueryAttitude(t *testing.T) {
	db := openTestDB(t)

	const session = "b1946ac9-2d0a-4cfe-9d27-8f4e1db013a8"
	base := time.Date(2016, 7, 20, 14, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		a := &ahrs400.Angle{
			Time: base.Add(time.Duration(i) * 10 * time.Millisecond),
			Roll: 0.1 * float64(i),
			YAcc: -9.8,
		}
		require.NoError(t, db.InsertAttitude(session, a))
	}

	n, err := db.CountAttitude(session)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	latest, err := db.LatestAttitude(session)
	require.NoError(t, err)
	assert.Equal(t, base.Add(20*time.Millisecond), latest.Time)
	assert.InDelta(t, 0.2, latest.Roll, 1e-9)
	assert.InDelta(t, -9.8, latest.YAcc, 1e-9)

	// Other sessions are isolated.
	n, err = db.CountAttitude("some-other-session")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInsertADC(t *testing.T) {
	db := openTestDB(t)

	s := &vcmdas1.Sample{Time: time.Date(2016, 7, 20, 14, 0, 0, 0, time.UTC)}
	for i := range s.Data {
		s.Data[i] = int16(i - 8)
	}
	require.NoError(t, db.InsertADC("session-a", s))

	var ch0, ch15 int16
	err := db.QueryRow(`SELECT ch0, ch15 FROM adc_samples WHERE session_id = ?`, "session-a").
		Scan(&ch0, &ch15)
	require.NoError(t, err)
	assert.Equal(t, int16(-8), ch0)
	assert.Equal(t, int16(7), ch15)
}
