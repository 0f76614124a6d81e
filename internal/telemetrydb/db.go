// Package telemetrydb stores accepted samples in a local SQLite database so
// completed flights can be queried without replaying transcripts.
package telemetrydb

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/marioney/fdas3/internal/ahrs400"
	"github.com/marioney/fdas3/internal/vcmdas1"
)

// DB wraps the SQLite handle holding the telemetry tables.
type DB struct {
	*sql.DB
}

// Open opens (or creates) the telemetry database at path and brings its
// schema up to date.
func Open(path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening telemetry database: %w", err)
	}

	db := &DB{sqldb}
	if err := db.MigrateUp(); err != nil {
		sqldb.Close()
		return nil, err
	}
	return db, nil
}

// InsertAttitude records one converted attitude sample under the given
// acquisition session id.
func (db *DB) InsertAttitude(sessionID string, a *ahrs400.Angle) error {
	_, err := db.Exec(`
		INSERT INTO attitude_samples (
			session_id, time_usec,
			xacc, yacc, zacc,
			xgyro, ygyro, zgyro,
			xmag, ymag, zmag,
			roll, pitch, yaw,
			temperature, sensor_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, a.Time.UnixMicro(),
		a.XAcc, a.YAcc, a.ZAcc,
		a.XGyro, a.YGyro, a.ZGyro,
		a.XMag, a.YMag, a.ZMag,
		a.Roll, a.Pitch, a.Yaw,
		a.Temperature, a.SensorTime,
	)
	if err != nil {
		return fmt.Errorf("inserting attitude sample: %w", err)
	}
	return nil
}

// InsertADC records one acquisition board scan under the given session id.
func (db *DB) InsertADC(sessionID string, s *vcmdas1.Sample) error {
	_, err := db.Exec(`
		INSERT INTO adc_samples (
			session_id, time_usec,
			ch0, ch1, ch2, ch3, ch4, ch5, ch6, ch7,
			ch8, ch9, ch10, ch11, ch12, ch13, ch14, ch15
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, s.Time.UnixMicro(),
		s.Data[0], s.Data[1], s.Data[2], s.Data[3],
		s.Data[4], s.Data[5], s.Data[6], s.Data[7],
		s.Data[8], s.Data[9], s.Data[10], s.Data[11],
		s.Data[12], s.Data[13], s.Data[14], s.Data[15],
	)
	if err != nil {
		return fmt.Errorf("inserting adc sample: %w", err)
	}
	return nil
}

// CountAttitude returns the number of attitude samples stored for a
// session.
func (db *DB) CountAttitude(sessionID string) (int64, error) {
	var n int64
	err := db.QueryRow(
		`SELECT COUNT(*) FROM attitude_samples WHERE session_id = ?`, sessionID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting attitude samples: %w", err)
	}
	return n, nil
}

// LatestAttitude returns the most recent attitude sample of a session, or
// sql.ErrNoRows if the session recorded none.
func (db *DB) LatestAttitude(sessionID string) (*ahrs400.Angle, error) {
	var a ahrs400.Angle
	var usec int64
	err := db.QueryRow(`
		SELECT time_usec,
			xacc, yacc, zacc,
			xgyro, ygyro, zgyro,
			xmag, ymag, zmag,
			roll, pitch, yaw,
			temperature, sensor_time
		FROM attitude_samples
		WHERE session_id = ?
		ORDER BY time_usec DESC LIMIT 1`, sessionID,
	).Scan(&usec,
		&a.XAcc, &a.YAcc, &a.ZAcc,
		&a.XGyro, &a.YGyro, &a.ZGyro,
		&a.XMag, &a.YMag, &a.ZMag,
		&a.Roll, &a.Pitch, &a.Yaw,
		&a.Temperature, &a.SensorTime,
	)
	if err != nil {
		return nil, err
	}
	a.Time = time.UnixMicro(usec).UTC()
	return &a, nil
}
