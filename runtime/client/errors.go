package client

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

var (
	// ErrConnectionFailed is matched by every ConnectionFailure.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrServerVersion is returned when the server does not satisfy the
	// configured version constraint.
	ErrServerVersion = errors.New("unsupported server version")
)

// ConnectionFailure reports that the database could not be reached.
type ConnectionFailure struct {
	// Target is the connection URL with its password removed.
	Target string
	Cause  error
}

func (e *ConnectionFailure) Error() string {
	return fmt.Sprintf("connection to %s failed: %v", e.Target, e.Cause)
}

func (e *ConnectionFailure) Unwrap() error {
	return e.Cause
}

// Is matches ErrConnectionFailed.
func (e *ConnectionFailure) Is(target error) bool {
	return target == ErrConnectionFailed
}

var passwordParam = regexp.MustCompile(`password=\S+`)

func redact(target string) string {
	if u, err := url.Parse(target); err == nil && u.Scheme != "" {
		return u.Redacted()
	}
	return passwordParam.ReplaceAllString(target, "password=xxxxx")
}

// dependentObjectsStillExist is the PostgreSQL SQLSTATE raised when dropping
// an object other objects depend on.
const dependentObjectsStillExist = "2BP01"

// IsDependencyError reports whether err was raised because other objects
// depend on the one being dropped, as with drop table without cascade.
func IsDependencyError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == dependentObjectsStillExist
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == dependentObjectsStillExist
	}
	return false
}
