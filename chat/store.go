////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

// Package chat is an in-process conversation and messaging engine. It models
// direct, group and broadcast conversations, the messages in them, read state
// and unread counters, emoji reactions and message forwarding.
//
// All state lives in a [Store]. Operations are performed through a [Session],
// which binds the store to the participant acting on it. Every mutating
// operation is a single atomic transition: it is validated, handed to the
// store's [EventModel] and only then applied in memory.
package chat

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"gitlab.com/xx_network/primitives/netTime"

	"gitlab.com/elixxir/convo/directory"
)

// Params configures a [Store].
type Params struct {
	// Now returns the timestamp assigned to new messages and conversations.
	Now func() time.Time

	// NewID returns a fresh, unique ID for messages and conversations.
	NewID func() string

	// Seed is installed when the event model has nothing stored. Only shape
	// checks are done on it.
	Seed *Snapshot
}

// GetDefaultParams returns params using the network clock and random UUIDs.
func GetDefaultParams() Params {
	return Params{
		Now:   netTime.Now,
		NewID: uuid.NewString,
	}
}

// Store owns every conversation and message. It is safe for concurrent use;
// all transitions are serialised.
type Store struct {
	dir   directory.Directory
	model EventModel
	now   func() time.Time
	newID func() string

	conversations map[string]*ConversationRecord
	messages      map[string]*Message
	// history lists message IDs per conversation in insertion order
	history map[string][]string
	deleted map[string]struct{}
	// open maps a participant to the conversation they currently have open
	open map[string]string

	nextSequence uint64

	mux sync.RWMutex
}

// NewStore builds a store over the directory. If model is not nil its stored
// state is loaded; when it has none, params.Seed is installed and persisted.
func NewStore(dir directory.Directory, model EventModel, params Params) (*Store, error) {
	if dir == nil {
		return nil, errors.Wrap(InvalidArgumentErr, "a directory is required")
	}
	defaults := GetDefaultParams()
	if params.Now == nil {
		params.Now = defaults.Now
	}
	if params.NewID == nil {
		params.NewID = defaults.NewID
	}

	s := &Store{
		dir:           dir,
		model:         model,
		now:           params.Now,
		newID:         params.NewID,
		conversations: make(map[string]*ConversationRecord),
		messages:      make(map[string]*Message),
		history:       make(map[string][]string),
		deleted:       make(map[string]struct{}),
		open:          make(map[string]string),
		nextSequence:  1,
	}

	var stored *Snapshot
	if model != nil {
		var err error
		if stored, err = model.Load(); err != nil {
			return nil, errors.WithMessage(err, "failed to load stored state")
		}
	}

	if !stored.IsEmpty() {
		if err := s.bootstrap(stored); err != nil {
			return nil, errors.WithMessage(err, "stored state is malformed")
		}
		jww.INFO.Printf("[CHAT] Loaded %d conversations and %d messages",
			len(s.conversations), len(s.messages))
		return s, nil
	}

	if !params.Seed.IsEmpty() {
		if err := s.bootstrap(params.Seed); err != nil {
			return nil, err
		}
		if model != nil {
			if err := model.Apply(s.snapshotUpdate()); err != nil {
				return nil, errors.WithMessage(err, "failed to persist seed")
			}
		}
		jww.INFO.Printf("[CHAT] Seeded %d conversations and %d messages",
			len(s.conversations), len(s.messages))
	}

	return s, nil
}

// Session returns a handle acting as the given participant. The participant
// must exist in the directory.
func (s *Store) Session(participantID string) (*Session, error) {
	if _, exists := s.dir.Get(participantID); !exists {
		return nil, errors.Wrapf(NotFoundErr, "participant %s", participantID)
	}
	return &Session{s: s, me: participantID}, nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *Snapshot {
	s.mux.RLock()
	defer s.mux.RUnlock()
	u := s.snapshotUpdate()
	for id := range s.deleted {
		u.DeletedMessageIDs = append(u.DeletedMessageIDs, id)
	}
	return (*Snapshot)(nil).Merge(u)
}

// Session acts on a [Store] as one participant. It is cheap to create and
// holds no state of its own besides the participant ID.
type Session struct {
	s  *Store
	me string
}

// UserID returns the ID of the acting participant.
func (ss *Session) UserID() string {
	return ss.me
}

// snapshotUpdate returns the whole in-memory state as an update. The caller
// must hold the lock.
func (s *Store) snapshotUpdate() *Update {
	u := &Update{
		Conversations: make([]*ConversationRecord, 0, len(s.conversations)),
		Messages:      make([]*Message, 0, len(s.messages)),
	}
	for _, c := range s.conversations {
		u.Conversations = append(u.Conversations, c)
	}
	for _, m := range s.messages {
		u.Messages = append(u.Messages, m)
	}
	return u
}

// bootstrap installs a snapshot after shape checks. Historical invariants,
// such as unread counters matching receipts, are not re-validated.
func (s *Store) bootstrap(snap *Snapshot) error {
	for _, id := range snap.DeletedMessageIDs {
		s.deleted[id] = struct{}{}
	}

	for i, c := range snap.Conversations {
		if c == nil || strings.TrimSpace(c.ID) == "" {
			return errors.Wrapf(InvalidArgumentErr,
				"conversation %d has no ID", i)
		}
		if _, exists := s.conversations[c.ID]; exists {
			return errors.Wrapf(InvalidArgumentErr,
				"conversation %s is defined twice", c.ID)
		}
		switch c.Kind {
		case Direct, Group, Broadcast:
		default:
			return errors.Wrapf(InvalidArgumentErr,
				"conversation %s has kind %s", c.ID, c.Kind)
		}
		if len(c.ParticipantIDs) == 0 {
			return errors.Wrapf(InvalidArgumentErr,
				"conversation %s has no participants", c.ID)
		}
		rec := c.clone()
		if rec.Unread == nil {
			rec.Unread = make(map[string]int)
		}
		for p, n := range rec.Unread {
			if n < 0 {
				return errors.Wrapf(InvalidArgumentErr,
					"conversation %s has a negative unread count for %s",
					c.ID, p)
			}
		}
		s.conversations[rec.ID] = rec
	}

	// Seeds may leave sequences unset, in which case their order is the
	// insertion order
	renumber := false
	for _, m := range snap.Messages {
		if m != nil && m.Sequence == 0 {
			renumber = true
			break
		}
	}

	for i, m := range snap.Messages {
		if m == nil || strings.TrimSpace(m.ID) == "" {
			return errors.Wrapf(InvalidArgumentErr, "message %d has no ID", i)
		}
		if _, exists := s.messages[m.ID]; exists {
			return errors.Wrapf(InvalidArgumentErr,
				"message %s is defined twice", m.ID)
		}
		if _, deleted := s.deleted[m.ID]; deleted {
			return errors.Wrapf(InvalidArgumentErr,
				"message %s was deleted", m.ID)
		}
		if _, exists := s.conversations[m.ConversationID]; !exists {
			return errors.Wrapf(InvalidArgumentErr,
				"message %s belongs to unknown conversation %s",
				m.ID, m.ConversationID)
		}
		switch {
		case m.Kind == TextKind && m.File != nil:
			return errors.Wrapf(InvalidArgumentErr,
				"text message %s carries a file", m.ID)
		case m.Kind == FileKind && m.File == nil:
			return errors.Wrapf(InvalidArgumentErr,
				"file message %s has no file", m.ID)
		case m.Kind != TextKind && m.Kind != FileKind:
			return errors.Wrapf(InvalidArgumentErr,
				"message %s has kind %s", m.ID, m.Kind)
		case m.IsForwarded != (m.ForwardedFrom != ""):
			return errors.Wrapf(InvalidArgumentErr,
				"message %s has inconsistent forwarding provenance", m.ID)
		}

		msg := m.clone()
		msg.ReadBy = remove(msg.ReadBy, msg.SenderID)
		if renumber {
			msg.Sequence = s.nextSequence
		}
		if msg.Sequence >= s.nextSequence {
			s.nextSequence = msg.Sequence + 1
		}
		s.messages[msg.ID] = msg
		s.history[msg.ConversationID] = append(
			s.history[msg.ConversationID], msg.ID)
	}

	return nil
}

// commit persists the update through the event model and, only if that
// succeeds, applies it in memory. The caller must hold the write lock.
func (s *Store) commit(u *Update) error {
	if u.IsEmpty() {
		return nil
	}
	if s.model != nil {
		if err := s.model.Apply(u); err != nil {
			jww.ERROR.Printf("[CHAT] Failed to persist update, "+
				"nothing was applied: %+v", err)
			return errors.WithMessage(err, "failed to persist update")
		}
	}

	for _, c := range u.Conversations {
		s.conversations[c.ID] = c
	}
	for _, m := range u.Messages {
		if _, exists := s.messages[m.ID]; !exists {
			s.history[m.ConversationID] = append(
				s.history[m.ConversationID], m.ID)
		}
		s.messages[m.ID] = m
	}
	for _, id := range u.DeletedMessageIDs {
		if m, exists := s.messages[id]; exists {
			delete(s.messages, id)
			s.history[m.ConversationID] = remove(
				s.history[m.ConversationID], id)
		}
		s.deleted[id] = struct{}{}
	}
	return nil
}

// conversationFor returns the stored conversation if the participant belongs
// to it. The caller must hold the lock.
func (s *Store) conversationFor(me, conversationID string) (*ConversationRecord, error) {
	cr, exists := s.conversations[conversationID]
	if !exists {
		return nil, errors.Wrapf(NotFoundErr, "conversation %s", conversationID)
	}
	if !cr.HasParticipant(me) {
		return nil, errors.Wrapf(ForbiddenErr,
			"%s is not a participant of conversation %s", me, conversationID)
	}
	return cr, nil
}

// messageFor returns the stored message and its conversation if the
// participant belongs to that conversation. The caller must hold the lock.
func (s *Store) messageFor(me, messageID string) (*Message, *ConversationRecord, error) {
	m, exists := s.messages[messageID]
	if !exists {
		return nil, nil, errors.Wrapf(NotFoundErr, "message %s", messageID)
	}
	cr, err := s.conversationFor(me, m.ConversationID)
	if err != nil {
		return nil, nil, err
	}
	return m, cr, nil
}

// newMessageID returns an ID that has never been used by this store. The
// caller must hold the write lock.
func (s *Store) newMessageID() string {
	for {
		id := s.newID()
		if _, exists := s.messages[id]; exists {
			continue
		}
		if _, deleted := s.deleted[id]; deleted {
			continue
		}
		return id
	}
}

// newConversationID returns an unused conversation ID. The caller must hold
// the write lock.
func (s *Store) newConversationID() string {
	for {
		id := s.newID()
		if _, exists := s.conversations[id]; !exists {
			return id
		}
	}
}

// latest returns the newest message of the conversation other than skip, or
// nil. The caller must hold the lock.
func (s *Store) latest(conversationID, skip string) *Message {
	var newest *Message
	for _, id := range s.history[conversationID] {
		if id == skip {
			continue
		}
		m := s.messages[id]
		if newest == nil || newest.before(m) {
			newest = m
		}
	}
	return newest
}
