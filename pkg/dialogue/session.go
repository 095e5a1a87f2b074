// Package dialogue drives the investigative decoy conversation. Each session
// is a state machine: ENGAGING while the decoy plays along, CONCLUDED the
// moment a conclusive trigger artifact appears in an adversary message.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/keywords"
	"github.com/IshitaSinghFaujdar/honeytrapper/pkg/trigger"
)

// State of a dialogue session.
type State string

const (
	// StateEngaging means the decoy is actively conversing.
	StateEngaging State = "ENGAGING"
	// StateConcluded is terminal: evidence was obtained, no further replies.
	StateConcluded State = "CONCLUDED"
)

// Role tags who produced a message.
type Role string

const (
	RoleInvestigator Role = "investigator"
	RoleAdversary    Role = "adversary"
)

// Sentinel errors surfaced by the engine.
var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionConcluded     = errors.New("session is concluded")
	ErrResponderUnavailable = errors.New("responder unavailable")
)

// Message is one turn entry in the session history.
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the persistent state of one engagement.
type Session struct {
	ID         string            `json:"id"`
	Messages   []Message         `json:"messages"`
	State      State             `json:"state"`
	Trigger    *trigger.Evidence `json:"trigger,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	LastTurnAt time.Time         `json:"last_turn_at"`
}

// clone returns a deep copy. The in-memory store hands out clones so a
// session being read (and JSON-encoded) never aliases one being mutated by
// an in-flight turn.
func (s *Session) clone() *Session {
	c := *s
	c.Messages = append([]Message(nil), s.Messages...)
	if s.Trigger != nil {
		ev := *s.Trigger
		c.Trigger = &ev
	}
	return &c
}

// messagesByRole returns the text of all messages with the given role.
func (s *Session) messagesByRole(role Role) []string {
	var out []string
	for _, m := range s.Messages {
		if m.Role == role {
			out = append(out, m.Text)
		}
	}
	return out
}

// Store persists sessions. Implementations must return ErrSessionNotFound
// for unknown or expired identifiers.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// Responder generates the decoy's next reply given the session history and
// the new inbound message.
type Responder interface {
	Reply(ctx context.Context, history []Message, inbound string) (string, error)
}

// TurnResult is what one inbound adversary message produces.
type TurnResult struct {
	SessionID string            `json:"session_id"`
	State     State             `json:"state"`
	Reply     string            `json:"reply,omitempty"` // empty when concluded
	Trigger   *trigger.Evidence `json:"trigger,omitempty"`
	AI        *AIAnalysis       `json:"ai_analysis,omitempty"`
	Mimicry   *MimicryAnalysis  `json:"mimicry_analysis,omitempty"`
}

// Engine serializes turns per session and applies the state machine.
type Engine struct {
	store     Store
	responder Responder
	reg       *keywords.Registry

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock serializes turns on one session. Refcounted so the entry can
// be removed as soon as no turn holds or waits on it; the lock map is then
// bounded by in-flight turns, not by the number of sessions ever seen.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewEngine creates a dialogue engine. responder may be nil; turns then fail
// with ErrResponderUnavailable unless a trigger concludes the session first.
func NewEngine(store Store, responder Responder, reg *keywords.Registry) *Engine {
	return &Engine{
		store:     store,
		responder: responder,
		reg:       reg,
		locks:     make(map[string]*sessionLock),
	}
}

// lockSession acquires the per-session mutex, creating it on first use.
// Turns on the same session must not interleave: the ENGAGING→CONCLUDED
// transition has to be observed consistently by the next turn.
func (e *Engine) lockSession(id string) *sessionLock {
	e.mu.Lock()
	l, ok := e.locks[id]
	if !ok {
		l = &sessionLock{}
		e.locks[id] = l
	}
	l.refs++
	e.mu.Unlock()

	l.mu.Lock()
	return l
}

// unlockSession releases the mutex and drops the map entry once the last
// holder or waiter is gone.
func (e *Engine) unlockSession(id string, l *sessionLock) {
	l.mu.Unlock()

	e.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(e.locks, id)
	}
	e.mu.Unlock()
}

// StartSession creates a new ENGAGING session.
func (e *Engine) StartSession(ctx context.Context) (*Session, error) {
	now := time.Now().UTC()
	s := &Session{
		ID:         uuid.NewString(),
		State:      StateEngaging,
		CreatedAt:  now,
		LastTurnAt: now,
	}
	if err := e.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("saving new session: %w", err)
	}
	return s, nil
}

// Session returns the current state of a session.
func (e *Engine) Session(ctx context.Context, id string) (*Session, error) {
	return e.store.Get(ctx, id)
}

// Turn processes one inbound adversary message. The trigger scan runs first
// and short-circuits to conclusion; otherwise the responder produces a reply
// annotated with the advisory authorship and mimicry flags. A responder
// failure leaves the session unchanged so the caller can retry without
// duplicating state.
func (e *Engine) Turn(ctx context.Context, sessionID, inbound string) (*TurnResult, error) {
	lock := e.lockSession(sessionID)
	defer e.unlockSession(sessionID, lock)

	session, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State == StateConcluded {
		return nil, fmt.Errorf("%w: %s", ErrSessionConcluded, sessionID)
	}

	now := time.Now().UTC()

	if ev := trigger.Scan(inbound); ev != nil {
		session.Messages = append(session.Messages, Message{
			Role: RoleAdversary, Text: inbound, Timestamp: now,
		})
		session.State = StateConcluded
		session.Trigger = ev
		session.LastTurnAt = now
		if err := e.store.Save(ctx, session); err != nil {
			return nil, fmt.Errorf("saving concluded session: %w", err)
		}
		return &TurnResult{
			SessionID: sessionID,
			State:     StateConcluded,
			Trigger:   ev,
		}, nil
	}

	// Advisory flags only; they never affect state.
	ai := AnalyzeAuthorship(e.reg, inbound)
	adversary := append(session.messagesByRole(RoleAdversary), inbound)
	mimicry := AnalyzeMimicry(session.messagesByRole(RoleInvestigator), adversary)

	if e.responder == nil {
		return nil, ErrResponderUnavailable
	}
	reply, err := e.responder.Reply(ctx, session.Messages, inbound)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponderUnavailable, err)
	}

	session.Messages = append(session.Messages,
		Message{Role: RoleAdversary, Text: inbound, Timestamp: now},
		Message{Role: RoleInvestigator, Text: reply, Timestamp: time.Now().UTC()},
	)
	session.LastTurnAt = now
	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	return &TurnResult{
		SessionID: sessionID,
		State:     StateEngaging,
		Reply:     reply,
		AI:        &ai,
		Mimicry:   &mimicry,
	}, nil
}
