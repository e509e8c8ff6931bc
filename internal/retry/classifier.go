package retry

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// Classifier decides whether an error is transient and worth retrying.
type Classifier interface {
	IsTransient(err error) bool
}

// PostgreSQLErrorClassifier classifies PostgreSQL and network errors.
// Transient SQLSTATE classes per
// https://www.postgresql.org/docs/current/errcodes-appendix.html:
//
//	08  connection exception
//	53  insufficient resources
//	57  operator intervention (includes 57P03 "cannot connect now",
//	    the state a container reports while still starting)
//
// plus serialization failure and deadlock from class 40.
type PostgreSQLErrorClassifier struct{}

// NewPostgreSQLErrorClassifier creates a new PostgreSQL error classifier.
func NewPostgreSQLErrorClassifier() *PostgreSQLErrorClassifier {
	return &PostgreSQLErrorClassifier{}
}

const (
	pgCodeSerializationFailure = "40001"
	pgCodeDeadlockDetected     = "40P01"
	pgCodeLockNotAvailable     = "55P03"
)

// IsTransient determines if an error is temporary and retryable.
// Constraint violations (class 23) and data errors are never transient.
func (c *PostgreSQLErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return transientPgCode(pgErr.Code)
	}

	return isNetworkError(err) || hasTransientMessage(err)
}

func transientPgCode(code string) bool {
	if strings.HasPrefix(code, "08") ||
		strings.HasPrefix(code, "53") ||
		strings.HasPrefix(code, "57") {
		return true
	}
	switch code {
	case pgCodeSerializationFailure, pgCodeDeadlockDetected, pgCodeLockNotAvailable:
		return true
	}
	return false
}

func isNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() || dnsErr.Timeout()
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Temporary() || opErr.Timeout() {
			return true
		}
		if opErr.Err != nil {
			for _, errno := range []syscall.Errno{
				syscall.ECONNREFUSED,
				syscall.ECONNRESET,
				syscall.ENETUNREACH,
				syscall.EHOSTUNREACH,
			} {
				if errors.Is(opErr.Err, errno) {
					return true
				}
			}
		}
	}

	return false
}

// hasTransientMessage catches wrapped errors whose type information was lost,
// matching on common connection failure text.
func hasTransientMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	patterns := []string{
		"connection refused",
		"connection reset",
		"connection timeout",
		"i/o timeout",
		"broken pipe",
		"too many connections",
		"server closed the connection",
		"unexpected eof",
		"the database system is starting up",
	}
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
