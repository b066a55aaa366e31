package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/whatever-x/couple-backend/internal/apperr"
	redisclient "github.com/whatever-x/couple-backend/internal/clients/redis"
	"github.com/whatever-x/couple-backend/internal/logger"
)

const inviteCodeTTL = 24 * time.Hour

// InviteService pairs two users: the inviter hands out a short-lived code,
// the joiner redeems it, and redemption creates the couple.
type InviteService struct {
	codes   redisclient.InviteStore
	couples CoupleService
	log     *logger.Logger
}

func NewInviteService(codes redisclient.InviteStore, couples CoupleService, baseLog *logger.Logger) *InviteService {
	return &InviteService{
		codes:   codes,
		couples: couples,
		log:     baseLog.With("service", "InviteService"),
	}
}

func (s *InviteService) CreateInvite(ctx context.Context, inviterID uuid.UUID) (string, error) {
	if inviterID == uuid.Nil {
		return "", apperr.New(apperr.KindInvalidArgument, "MISSING_INVITER", "inviter id required")
	}
	code := newInviteCode()
	if err := s.codes.SaveCode(ctx, code, inviterID, inviteCodeTTL); err != nil {
		return "", err
	}
	return code, nil
}

// AcceptInvite resolves the code, creates the couple and pairs both users.
// The code is burned only after pairing succeeds.
func (s *InviteService) AcceptInvite(ctx context.Context, code string, joinerID uuid.UUID) (uuid.UUID, error) {
	inviterID, err := s.codes.ResolveCode(ctx, code)
	if err != nil {
		return uuid.Nil, err
	}
	if inviterID == joinerID {
		return uuid.Nil, apperr.New(apperr.KindInvalidArgument, "SELF_INVITE", "cannot accept your own invite")
	}

	couple, err := s.couples.CreateCouple(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.couples.AddMembers(ctx, couple.ID, inviterID, joinerID); err != nil {
		return uuid.Nil, err
	}

	if err := s.codes.DeleteCode(ctx, code); err != nil {
		s.log.Warn("failed to delete redeemed invite code", "code", code, "error", err)
	}
	return couple.ID, nil
}

func newInviteCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:8])
}
