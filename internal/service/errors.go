package service

import (
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"gorm.io/gorm"
)

// Expected, user-facing conditions. Handlers map these to HTTP statuses;
// anything else that escapes a service is a storage fault and the whole
// operation has already rolled back.
var (
	ErrInsufficientBalance  = errors.New("insufficient drops balance")
	ErrDuplicateApplication = errors.New("ledger entry already exists for this reference")
	ErrRewardNotFound       = errors.New("reward not found")
	ErrOutOfStock           = errors.New("reward is out of stock")
	ErrInvalidTransition    = errors.New("redemption is not pending")
	ErrNotFound             = errors.New("not found")
)

// IsUnavailable reports whether err means the datastore itself could not
// be reached, as opposed to the operation failing. Handlers map these to
// 502 so callers know the request is safe to retry.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrInvalidDB) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "invalid connection") || // mysql driver after a dropped conn
		strings.Contains(msg, "database is closed")
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || // mysql 1062
		strings.Contains(msg, "UNIQUE constraint failed") // sqlite
}
