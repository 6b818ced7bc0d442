package db

import (
	"strings"

	"github.com/teranos/gridsense/errors"
)

// ErrDatabaseClosed marks writes attempted after the database was closed,
// typically a batch still saving while the command shuts down.
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed reports whether err is or wraps ErrDatabaseClosed, or is
// the driver's own closed-connection error, which cannot be wrapped at source.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}
