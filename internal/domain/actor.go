package domain

import "strings"

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleWorker = "worker"
	RoleAdmin  = "admin"
)

// Actor is the acting principal as supplied by the identity collaborator.
// For workers the zone triple is mandatory; other roles carry empty zones.
type Actor struct {
	UserID   int64
	Role     string
	ZoneID   int64
	ZoneCode string
	ZoneName string
}

func (a Actor) IsWorker() bool {
	return strings.EqualFold(strings.TrimSpace(a.Role), RoleWorker)
}

func (a Actor) IsSeller() bool {
	return strings.EqualFold(strings.TrimSpace(a.Role), RoleSeller)
}

func (a Actor) IsAdmin() bool {
	return strings.EqualFold(strings.TrimSpace(a.Role), RoleAdmin)
}
