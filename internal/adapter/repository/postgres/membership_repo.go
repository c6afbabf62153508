package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/almori/tripledger/internal/domain"
)

// MembershipRepository implements usecase.MembershipRepository.
type MembershipRepository struct {
	pool *pgxpool.Pool
}

// NewMembershipRepository creates a new MembershipRepository.
func NewMembershipRepository(pool *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{pool: pool}
}

// IsMember reports whether a user belongs to a trip.
func (r *MembershipRepository) IsMember(ctx context.Context, tripID, userID string) (bool, error) {
	var exists bool

	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM trip_members WHERE trip_id = $1 AND user_id = $2)`,
		tripID, userID,
	).Scan(&exists)

	return exists, err
}

// IsOrganizer reports whether a user is a trip organizer.
func (r *MembershipRepository) IsOrganizer(ctx context.Context, tripID, userID string) (bool, error) {
	var exists bool

	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM trip_members WHERE trip_id = $1 AND user_id = $2 AND role = $3)`,
		tripID, userID, string(domain.MemberRoleOrganizer),
	).Scan(&exists)

	return exists, err
}

// ListMembers lists a trip's members.
func (r *MembershipRepository) ListMembers(ctx context.Context, tripID string) ([]*domain.TripMember, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT trip_id, user_id, role, joined_at FROM trip_members WHERE trip_id = $1 ORDER BY joined_at, user_id`,
		tripID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.TripMember
	for rows.Next() {
		var (
			member   domain.TripMember
			role     string
			joinedAt pgtype.Timestamptz
		)

		if err := rows.Scan(&member.TripID, &member.UserID, &role, &joinedAt); err != nil {
			return nil, err
		}

		member.Role = domain.MemberRole(role)
		member.JoinedAt = joinedAt.Time
		members = append(members, &member)
	}

	return members, rows.Err()
}
