package session

import (
	"sync"
	"time"
)

// FightResult keeps the artifacts of the user's last clip generation so
// /last can re-send them without another model call.
type FightResult struct {
	SpecJSON    string
	PromptEN    string
	TimelineZH  string
	GeneratedAt time.Time
}

type AdResult struct {
	Brand          string
	Product        string
	StoryboardJSON string
	Voiceover      string
	GeneratedAt    time.Time
}

type Session struct {
	UserID       int64
	Username     string
	Fight        *FightResult
	Ad           *AdResult
	LastActivity time.Time
}

type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]*Session),
	}
}

func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		sess.Fight = nil
		sess.Ad = nil
		sess.LastActivity = time.Now()
	}
}

func (s *Store) SetFight(userID int64, username string, res FightResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID, username)
	sess.LastActivity = time.Now()
	res.GeneratedAt = time.Now()
	sess.Fight = &res
}

func (s *Store) SetAd(userID int64, username string, res AdResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID, username)
	sess.LastActivity = time.Now()
	res.GeneratedAt = time.Now()
	sess.Ad = &res
}

func (s *Store) Fight(userID int64) (FightResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok || sess.Fight == nil {
		return FightResult{}, false
	}
	return *sess.Fight, true
}

func (s *Store) Ad(userID int64) (AdResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok || sess.Ad == nil {
		return AdResult{}, false
	}
	return *sess.Ad, true
}

func (s *Store) getOrCreateLocked(userID int64, username string) *Session {
	if sess, ok := s.sessions[userID]; ok {
		if sess.Username == "" && username != "" {
			sess.Username = username
		}
		return sess
	}

	sess := &Session{
		UserID:       userID,
		Username:     username,
		LastActivity: time.Now(),
	}
	s.sessions[userID] = sess
	return sess
}
