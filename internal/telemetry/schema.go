package telemetry

import (
	"database/sql"

	"github.com/aimana007/ChronyTop/internal/errors"
)

// initSchema creates the snapshot table when it does not exist yet.
func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS snapshots (
            timestamp INTEGER PRIMARY KEY,
            offset_seconds REAL,
            rms_offset_seconds REAL,
            frequency_ppm REAL,
            skew_ppm REAL,
            temp_max_celsius REAL,
            source_count INTEGER,
            reachable_count INTEGER,
            selected_count INTEGER,
            alert_count INTEGER,
            worst_severity TEXT
        )
    `)
	if err != nil {
		return errors.New().Wrap(ErrStorageInit, err)
	}

	return nil
}

func insertSnapshotSQL() string {
	return `
        INSERT INTO snapshots (
            timestamp, offset_seconds, rms_offset_seconds,
            frequency_ppm, skew_ppm, temp_max_celsius,
            source_count, reachable_count, selected_count,
            alert_count, worst_severity
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(timestamp) DO UPDATE SET
            offset_seconds = excluded.offset_seconds,
            rms_offset_seconds = excluded.rms_offset_seconds,
            frequency_ppm = excluded.frequency_ppm,
            skew_ppm = excluded.skew_ppm,
            temp_max_celsius = excluded.temp_max_celsius,
            source_count = excluded.source_count,
            reachable_count = excluded.reachable_count,
            selected_count = excluded.selected_count,
            alert_count = excluded.alert_count,
            worst_severity = excluded.worst_severity
    `
}
