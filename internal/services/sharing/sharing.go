package sharing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Houeta/pricewatch/internal/models"
)

var (
	// ErrNotMember is returned when a user tries to share a list they do not belong to.
	ErrNotMember = errors.New("user is not a member of the list")
	// ErrJoinFailed is returned by Redeem when the membership could not be recorded.
	ErrJoinFailed = errors.New("failed to join list")
)

// MembershipRepository is the slice of storage the sharing flow needs.
type MembershipRepository interface {
	IsListMember(ctx context.Context, listID, userID string) (bool, error)
	InsertListMembership(ctx context.Context, listID, userID string, role models.Role) error
}

// Codec encodes and decodes share codes.
type Codec interface {
	Encode(listID string) (string, error)
	Decode(code string) (*models.ShareInvitation, error)
}

// Service issues share codes and lets users join lists with them.
type Service struct {
	log   *slog.Logger
	codec Codec
	repo  MembershipRepository
}

// NewService creates a new sharing Service.
func NewService(log *slog.Logger, codec Codec, repo MembershipRepository) *Service {
	return &Service{log: log, codec: codec, repo: repo}
}

// Share returns a fresh share code for the list. Only members may share.
func (s *Service) Share(ctx context.Context, listID, userID string) (string, error) {
	const opn = "sharing.Share"

	member, err := s.repo.IsListMember(ctx, listID, userID)
	if err != nil {
		return "", fmt.Errorf("%s: failed to check membership: %w", opn, err)
	}
	if !member {
		return "", ErrNotMember
	}

	code, err := s.codec.Encode(listID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", opn, err)
	}

	s.log.InfoContext(ctx, "Share code issued", "op", opn, "list_id", listID, "user_id", userID)

	return code, nil
}

// Join adds the user to the invited list as an editor. It reports true when
// the user is a member afterwards, including when they already were, and
// false when the membership check or insert failed.
//
// Two concurrent joins of the same user may both see "not a member"; the
// list_members primary key then rejects the second insert, which reports
// false.
func (s *Service) Join(ctx context.Context, userID string, inv models.ShareInvitation) bool {
	const opn = "sharing.Join"
	log := s.log.With("op", opn, "list_id", inv.ListID, "user_id", userID)

	if strings.TrimSpace(userID) == "" || strings.TrimSpace(inv.ListID) == "" {
		log.WarnContext(ctx, "Join rejected: empty user or list id")
		return false
	}

	member, err := s.repo.IsListMember(ctx, inv.ListID, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to check list membership", "error", err)
		return false
	}
	if member {
		log.DebugContext(ctx, "User is already a member")
		return true
	}

	if err = s.repo.InsertListMembership(ctx, inv.ListID, userID, models.RoleEditor); err != nil {
		log.ErrorContext(ctx, "Failed to insert list membership", "error", err)
		return false
	}

	log.InfoContext(ctx, "User joined list")

	return true
}

// Redeem decodes a share code and joins its list. It returns the codec error
// for malformed or expired codes and ErrJoinFailed when joining failed.
func (s *Service) Redeem(ctx context.Context, userID, code string) (*models.ShareInvitation, error) {
	inv, err := s.codec.Decode(code)
	if err != nil {
		return nil, err
	}

	if !s.Join(ctx, userID, *inv) {
		return nil, ErrJoinFailed
	}

	return inv, nil
}
