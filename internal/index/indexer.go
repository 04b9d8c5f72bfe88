package index

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Zuo-Peng/studylog/internal/parse"
	"github.com/Zuo-Peng/studylog/internal/scan"
)

type Stats struct {
	Scanned int
	Updated int
	Skipped int
	Pruned  int
	Errors  int
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d updated=%d skipped=%d pruned=%d errors=%d",
		s.Scanned, s.Updated, s.Skipped, s.Pruned, s.Errors)
}

// IndexAll parses every log under root and stores it. A log that fails to
// parse is counted and left out; it does not stop the other files.
func IndexAll(db *DB, root string, logger *zap.Logger) (Stats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var stats Stats

	files, err := scan.ScanRoot(root)
	if err != nil {
		return stats, fmt.Errorf("scan: %w", err)
	}
	stats.Scanned = len(files)

	// track which files we see, for pruning
	seenKeys := make(map[string]struct{})

	for _, fi := range files {
		key := parse.SessionKey(root, fi.Path)
		seenKeys[key] = struct{}{}

		needs, err := needsUpdate(db, key, fi.Mtime, fi.Size)
		if err != nil {
			stats.Errors++
			logger.Warn("session lookup failed", zap.String("session", key), zap.Error(err))
			continue
		}
		if !needs {
			stats.Skipped++
			continue
		}

		result, err := parse.ParseFile(fi.Path)
		if err != nil {
			stats.Errors++
			logger.Warn("parse failed", zap.String("path", fi.Path), zap.Error(err))
			// a log that no longer parses must not keep serving old rows
			if err := db.DeleteSession(key); err != nil {
				logger.Warn("drop stale session failed", zap.String("session", key), zap.Error(err))
			}
			continue
		}
		result.Meta.SessionKey = key

		if err := indexSession(db, result, fi); err != nil {
			stats.Errors++
			logger.Warn("index failed", zap.String("path", fi.Path), zap.Error(err))
			continue
		}
		logger.Debug("indexed", zap.String("session", key), zap.Int("events", len(result.Events)))
		stats.Updated++
	}

	// prune sessions whose files no longer exist
	pruned, err := pruneSessions(db, seenKeys)
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Pruned = pruned

	return stats, nil
}

func needsUpdate(db *DB, sessionKey string, mtime, size int64) (bool, error) {
	info, err := db.GetSessionInfo(sessionKey)
	if err != nil {
		return false, err
	}
	if info == nil {
		return true, nil // new session
	}
	return info.Mtime != mtime || info.Size != size, nil
}

// StoreSession replaces a session's rows with the given parse result.
func StoreSession(db *DB, result *parse.ParseResult) error {
	return indexSession(db, result, scan.FileInfo{
		Path:  result.Meta.FilePath,
		Mtime: result.Meta.Mtime.Unix(),
		Size:  result.Meta.Size,
	})
}

func indexSession(db *DB, result *parse.ParseResult, fi scan.FileInfo) error {
	// delete old data first
	if err := db.DeleteSession(result.Meta.SessionKey); err != nil {
		return err
	}

	tx, err := db.Raw().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sessions (session_key, file_path, first_ts, last_ts, event_count, task_count, mtime, size)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.Meta.SessionKey,
		result.Meta.FilePath,
		result.Meta.FirstTS,
		result.Meta.LastTS,
		len(result.Events),
		result.Meta.Counts[parse.KindTaskCompletion],
		fi.Mtime,
		fi.Size,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO events (session_key, seq, kind, ts, label, x, y, correct, field_index, line_number)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for seq, e := range result.Events {
		r := toRow(e)
		_, err := stmt.Exec(
			result.Meta.SessionKey,
			seq,
			r.Kind,
			r.Ts,
			r.Label,
			r.X,
			r.Y,
			r.Correct,
			r.FieldIndex,
			r.Line,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func pruneSessions(db *DB, seenKeys map[string]struct{}) (int, error) {
	allKeys, err := db.AllSessionKeys()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for key := range allKeys {
		if _, ok := seenKeys[key]; !ok {
			if err := db.DeleteSession(key); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}
