// Package zone restricts field workers to resources inside their assigned zone.
package zone

import (
	"strings"

	"rentalbackend/internal/domain"
)

// Authorize checks a worker against the zone code of the resource being
// touched. resourceZoneCode must be re-derived from the stored vehicle row,
// never taken from caller input.
func Authorize(actor domain.Actor, resourceZoneCode string) error {
	if !actor.IsWorker() {
		return domain.AuthorizationError{Reason: "role is not worker"}
	}
	workerZone := strings.TrimSpace(actor.ZoneCode)
	if workerZone == "" {
		return domain.AuthorizationError{Reason: "worker has no zone assignment"}
	}
	if !strings.EqualFold(workerZone, strings.TrimSpace(resourceZoneCode)) {
		return domain.AuthorizationError{Reason: "resource outside worker zone"}
	}
	return nil
}

// CheckDeclared cross-checks a caller-declared zone parameter when one was
// supplied. It is an extra consistency check on top of Authorize, never a
// substitute for it.
func CheckDeclared(declared, resourceZoneCode string) error {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return nil
	}
	if !strings.EqualFold(declared, strings.TrimSpace(resourceZoneCode)) {
		return domain.ValidationError{Field: "zone_code", Msg: "declared zone does not match resource zone"}
	}
	return nil
}
