package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionTTL is how long an idle conversation survives before the bot forgets
// it and the user has to start over.
const SessionTTL = 15 * time.Minute

// Session tracks one chat's progress through a conversational flow. Step is
// the name of the question the bot is waiting on; Draft accumulates answers.
type Session struct {
	ChatID    int64     `json:"chatId"`
	Flow      string    `json:"flow"`
	Step      string    `json:"step"`
	Draft     LeadDraft `json:"draft"`
	Email     string    `json:"email,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LeadDraft holds the answers collected so far for a /newlead flow.
type LeadDraft struct {
	CompanyName string `json:"companyName"`
	Sector      string `json:"sector"`
	ClientPOC   string `json:"clientPoc"`
	PhoneNumber string `json:"phoneNumber"`
	EmailID     string `json:"emailId"`
	SourceType  string `json:"sourceType"`
	Notes       string `json:"notes"`
}

// SessionStore persists in-flight conversations. Implementations expire
// sessions after SessionTTL; a miss returns (nil, nil).
type SessionStore interface {
	Get(ctx context.Context, chatID int64) (*Session, error)
	Put(ctx context.Context, session *Session) error
	Delete(ctx context.Context, chatID int64) error
}

// memorySessionStore is the fallback when Redis is not configured. Expiry is
// checked on read, so a sweeper is not required for correctness.
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{sessions: make(map[int64]*Session)}
}

func (s *memorySessionStore) Get(_ context.Context, chatID int64) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chatID]
	if !ok {
		return nil, nil
	}
	if time.Since(session.UpdatedAt) > SessionTTL {
		delete(s.sessions, chatID)
		return nil, nil
	}
	return session, nil
}

func (s *memorySessionStore) Put(_ context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session.UpdatedAt = time.Now()
	s.sessions[session.ChatID] = session
	return nil
}

func (s *memorySessionStore) Delete(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, chatID)
	return nil
}

// redisSessionStore keeps sessions in Redis so the bot can restart without
// dropping conversations. The key TTL enforces expiry.
type redisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{client: client}
}

func sessionKey(chatID int64) string {
	return fmt.Sprintf("bot:session:%d", chatID)
}

func (s *redisSessionStore) Get(ctx context.Context, chatID int64) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	session := &Session{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *redisSessionStore) Put(ctx context.Context, session *Session) error {
	session.UpdatedAt = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.ChatID), data, SessionTTL).Err()
}

func (s *redisSessionStore) Delete(ctx context.Context, chatID int64) error {
	return s.client.Del(ctx, sessionKey(chatID)).Err()
}
