package handler

import (
	"net/http"

	"dripfit/internal/service"
)

// storageStatus picks the status for a non-sentinel failure: 502 when the
// datastore was unreachable (the caller may retry), 500 otherwise.
func storageStatus(err error) int {
	if service.IsUnavailable(err) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
