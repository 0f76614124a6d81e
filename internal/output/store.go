package output

import (
	"github.com/marioney/fdas3/internal/telemetrydb"
)

// StoreSink records converted samples in the telemetry database. Encoded
// bytes and raw-only records pass through untouched; only typed samples are
// stored.
type StoreSink struct {
	name      string
	db        *telemetrydb.DB
	sessionID string
}

// NewStoreSink creates a StoreSink writing under the given session id.
func NewStoreSink(name string, db *telemetrydb.DB, sessionID string) *StoreSink {
	return &StoreSink{name: name, db: db, sessionID: sessionID}
}

func (s *StoreSink) Name() string { return s.name }

// Emit inserts the record's typed sample, if it carries one.
func (s *StoreSink) Emit(rec Record) error {
	switch {
	case rec.Angle != nil:
		return s.db.InsertAttitude(s.sessionID, rec.Angle)
	case rec.ADC != nil:
		return s.db.InsertADC(s.sessionID, rec.ADC)
	}
	return nil
}
