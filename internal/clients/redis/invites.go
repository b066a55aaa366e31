package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/whatever-x/couple-backend/internal/apperr"
	"github.com/whatever-x/couple-backend/internal/logger"
	"github.com/whatever-x/couple-backend/internal/utils"
)

// InviteStore holds short-lived couple invite codes.
type InviteStore interface {
	SaveCode(ctx context.Context, code string, inviterID uuid.UUID, ttl time.Duration) error
	// ResolveCode returns the inviter behind a code, or NotFound when the
	// code is unknown or expired.
	ResolveCode(ctx context.Context, code string) (uuid.UUID, error)
	DeleteCode(ctx context.Context, code string) error
	Close() error
}

type inviteStore struct {
	rdb *goredis.Client
	log *logger.Logger
}

func NewInviteStore(baseLog *logger.Logger) (InviteStore, error) {
	addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", baseLog))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &inviteStore{
		rdb: rdb,
		log: baseLog.With("service", "RedisInviteStore"),
	}, nil
}

func inviteKey(code string) string {
	return "couple:invite:" + strings.ToUpper(strings.TrimSpace(code))
}

func (s *inviteStore) SaveCode(ctx context.Context, code string, inviterID uuid.UUID, ttl time.Duration) error {
	return s.rdb.Set(ctx, inviteKey(code), inviterID.String(), ttl).Err()
}

func (s *inviteStore) ResolveCode(ctx context.Context, code string) (uuid.UUID, error) {
	val, err := s.rdb.Get(ctx, inviteKey(code)).Result()
	if err == goredis.Nil {
		return uuid.Nil, apperr.New(apperr.KindNotFound, "INVITE_CODE_NOT_FOUND", "invite code unknown or expired")
	}
	if err != nil {
		return uuid.Nil, err
	}
	inviterID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt invite entry: %w", err)
	}
	return inviterID, nil
}

func (s *inviteStore) DeleteCode(ctx context.Context, code string) error {
	return s.rdb.Del(ctx, inviteKey(code)).Err()
}

func (s *inviteStore) Close() error {
	return s.rdb.Close()
}
