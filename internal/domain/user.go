package domain

import "time"

// User represents a registered user, as far as the ledger cares: an opaque
// identifier plus a display name for balance reports.
type User struct {
	ID          string
	DisplayName string
	Email       string
	CreatedAt   time.Time
}

// MemberRole represents a user's role within one trip.
type MemberRole string

const (
	// MemberRoleOrganizer can manage any expense or settlement of the trip.
	MemberRoleOrganizer MemberRole = "organizer"

	// MemberRoleMember can record expenses and settle their own debts.
	MemberRoleMember MemberRole = "member"
)

// IsValid checks if the role is a known role.
func (r MemberRole) IsValid() bool {
	return r == MemberRoleOrganizer || r == MemberRoleMember
}

// TripMember ties a user to a trip with a role.
type TripMember struct {
	TripID   string
	UserID   string
	Role     MemberRole
	JoinedAt time.Time
}

// Trip is the grouping context for all financial activity. The ledger only
// reads its identity and currency; trip CRUD lives elsewhere.
type Trip struct {
	ID        string
	Title     string
	Currency  string
	CreatedAt time.Time
}
