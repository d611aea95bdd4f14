package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mederva/boardprep-backend/internal/config"
	"github.com/mederva/boardprep-backend/internal/model"
)

// SessionMirror keeps the live quiz session copied into Redis on every
// mutation so a process restart or hard page reload can resume it.
type SessionMirror struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewSessionMirror creates a new SessionMirror.
func NewSessionMirror(rdb *redis.Client, log zerolog.Logger) *SessionMirror {
	return &SessionMirror{
		rdb: rdb,
		log: log.With().Str("component", "session_mirror").Logger(),
	}
}

// Save overwrites the mirrored session. A mirror write failure is logged
// but never surfaced, the in-memory session stays authoritative.
func (m *SessionMirror) Save(ctx context.Context, session *model.QuizSession) {
	raw, err := json.Marshal(session)
	if err != nil {
		m.log.Error().Err(err).Msg("Failed to marshal session for mirror")
		return
	}
	if err := m.rdb.Set(ctx, config.ActiveSessionKey, raw, 0).Err(); err != nil {
		m.log.Warn().Err(err).Msg("Failed to mirror session to redis")
	}
}

// Clear drops the mirrored session.
func (m *SessionMirror) Clear(ctx context.Context) {
	if err := m.rdb.Del(ctx, config.ActiveSessionKey).Err(); err != nil {
		m.log.Warn().Err(err).Msg("Failed to clear mirrored session")
	}
}

// Load returns the mirrored session, or nil when none is stored.
func (m *SessionMirror) Load(ctx context.Context) (*model.QuizSession, error) {
	raw, err := m.rdb.Get(ctx, config.ActiveSessionKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read mirrored session: %w", err)
	}

	var session model.QuizSession
	if err := json.Unmarshal(raw, &session); err != nil {
		// A corrupt mirror should not block startup.
		m.log.Warn().Err(err).Msg("Mirrored session is unreadable, discarding")
		m.Clear(ctx)
		return nil, nil
	}
	return &session, nil
}
