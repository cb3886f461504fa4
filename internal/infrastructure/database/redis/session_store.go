package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/DPR-Intelligence/internal/intelligence/whatif"
	"github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// SessionStore keeps simulation sessions as JSON with a TTL that restarts on
// every save, so sessions survive restarts and are shared across replicas.
type SessionStore struct {
	client *Client
	ttl    time.Duration
}

var _ whatif.SessionStore = (*SessionStore)(nil)

// NewSessionStore uses whatif.DefaultSessionTTL when ttl is not positive.
func NewSessionStore(client *Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = whatif.DefaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) key(id string) string { return s.client.Key("session:" + id) }

func (s *SessionStore) Save(ctx context.Context, sess *whatif.SimulationSession) error {
	if sess == nil || sess.ID == "" {
		return errors.New(errors.ErrCodeSessionStoreFailed, "session id is required")
	}
	rdb := s.client.Underlying()
	if rdb == nil {
		return errors.Wrap(ErrClientClosed, errors.ErrCodeSessionStoreFailed, "save session")
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSessionStoreFailed, "encode session")
	}
	if err := rdb.Set(ctx, s.key(sess.ID), data, s.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeSessionStoreFailed, "save session")
	}
	return nil
}

// Update overwrites the session only while its key exists (SET XX), so a
// session deleted on another replica is not brought back.
func (s *SessionStore) Update(ctx context.Context, sess *whatif.SimulationSession) error {
	if sess == nil || sess.ID == "" {
		return errors.New(errors.ErrCodeSessionStoreFailed, "session id is required")
	}
	rdb := s.client.Underlying()
	if rdb == nil {
		return errors.Wrap(ErrClientClosed, errors.ErrCodeSessionStoreFailed, "update session")
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSessionStoreFailed, "encode session")
	}
	ok, err := rdb.SetXX(ctx, s.key(sess.ID), data, s.ttl).Result()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSessionStoreFailed, "update session")
	}
	if !ok {
		return errors.Newf(errors.ErrCodeSessionNotFound, "session %s not found", sess.ID)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*whatif.SimulationSession, error) {
	rdb := s.client.Underlying()
	if rdb == nil {
		return nil, errors.Wrap(ErrClientClosed, errors.ErrCodeSessionStoreFailed, "get session")
	}
	data, err := rdb.Get(ctx, s.key(id)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, errors.Newf(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSessionStoreFailed, "get session")
	}
	var sess whatif.SimulationSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSessionStoreFailed, "decode session")
	}
	return &sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	rdb := s.client.Underlying()
	if rdb == nil {
		return errors.Wrap(ErrClientClosed, errors.ErrCodeSessionStoreFailed, "delete session")
	}
	n, err := rdb.Del(ctx, s.key(id)).Result()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSessionStoreFailed, "delete session")
	}
	if n == 0 {
		return errors.Newf(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	return nil
}

//Personal.AI order the ending
