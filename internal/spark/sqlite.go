package spark

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// busyTimeoutMs bounds how long a connection waits on the desktop
// application's database lock before failing the call.
const busyTimeoutMs = 3000

// Store provides read-only query access to the Spark Desktop databases:
// the transactional message store, the full-text index, and the calendar.
// Connections are opened per call and closed before the call returns; the
// files are owned and written by Spark itself.
type Store struct {
	messagesPath string
	searchPath   string
	calendarPath string

	heur   Heuristics
	logger *logrus.Logger

	now func() time.Time
}

// NewStore validates that all three database files exist and returns a
// store. A missing file is fatal here; there is no degraded mode.
func NewStore(messagesPath, searchPath, calendarPath string, heur Heuristics, logger *logrus.Logger) (*Store, error) {
	for _, p := range []string{messagesPath, searchPath, calendarPath} {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("database not found at %s: %w", p, err)
		}
	}

	s := &Store{
		messagesPath: messagesPath,
		searchPath:   searchPath,
		calendarPath: calendarPath,
		heur:         heur,
		logger:       logger,
		now:          time.Now,
	}

	logger.WithFields(logrus.Fields{
		"messages": messagesPath,
		"search":   searchPath,
		"calendar": calendarPath,
	}).Info("Spark store initialized")

	return s, nil
}

// openRO opens one short-lived read-only connection. query_only guards
// against accidental writes; busy_timeout bounds lock contention with the
// desktop application.
func openRO(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(%d)&_pragma=query_only(1)", path, busyTimeoutMs)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func (s *Store) openMessages() (*sql.DB, error) { return openRO(s.messagesPath) }
func (s *Store) openSearch() (*sql.DB, error)   { return openRO(s.searchPath) }
func (s *Store) openCalendar() (*sql.DB, error) { return openRO(s.calendarPath) }
