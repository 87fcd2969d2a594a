package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

const defaultTTL = 7 * 24 * time.Hour

// Store persists session State as JSON in Redis. Every save refreshes the TTL.
type Store struct {
	kv   redis.KeyValue
	ttl  time.Duration
	logg *logger.Logger
}

// NewStore wires the session store to Redis.
func NewStore(kv redis.KeyValue, ttl time.Duration, logg *logger.Logger) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{kv: kv, ttl: ttl, logg: logg}, nil
}

// Load returns the stored state, or an empty state when the session is new or
// its payload cannot be decoded.
func (s *Store) Load(ctx context.Context, sessionID string) (State, error) {
	key, err := s.key(sessionID)
	if err != nil {
		return State{}, err
	}
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if redis.IsNil(err) {
			return State{}, nil
		}
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "discarding unreadable session state")
		}
		return State{}, nil
	}
	return state, nil
}

func (s *Store) Save(ctx context.Context, sessionID string, state State) error {
	key, err := s.key(sessionID)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session")
	}
	if err := s.kv.Set(ctx, key, payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save session")
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, sessionID string) error {
	key, err := s.key(sessionID)
	if err != nil {
		return err
	}
	if err := s.kv.Del(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear session")
	}
	return nil
}

// Update loads the state, applies fn and saves the result. Nothing is written
// when fn returns an error.
func (s *Store) Update(ctx context.Context, sessionID string, fn func(*State) error) (State, error) {
	state, err := s.Load(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	if err := fn(&state); err != nil {
		return State{}, err
	}
	if err := s.Save(ctx, sessionID, state); err != nil {
		return State{}, err
	}
	return state, nil
}

func (s *Store) key(sessionID string) (string, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return s.kv.SessionKey(id), nil
}
