////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

package chat

import (
	jww "github.com/spf13/jwalterweatherman"
)

// Unread counters are cached per (conversation, participant). They are kept
// equal to the number of messages in the conversation that the participant
// did not send and is not in the ReadBy set of:
//   - a new message increments the counter of every other participant,
//     unless they have the conversation open, in which case they observe it
//     immediately and are added to ReadBy instead;
//   - MarkAsRead adds the participant to every ReadBy and resets the counter;
//   - deleting a message lowers the counter of everyone who had not read it.

// deliver accounts a newly appended message for every participant other
// than its sender. Both arguments must be copies owned by the caller.
func (s *Store) deliver(cr *ConversationRecord, m *Message) {
	for _, p := range cr.ParticipantIDs {
		if p == m.SenderID {
			continue
		}
		if s.open[p] == cr.ID {
			m.ReadBy = append(m.ReadBy, p)
			continue
		}
		cr.Unread[p]++
	}
}

// MarkAsRead records that the acting participant observed every message in
// the conversation and resets their unread counter to zero.
func (ss *Session) MarkAsRead(conversationID string) error {
	jww.TRACE.Printf("[CHAT] MarkAsRead(%s, %s)", ss.me, conversationID)

	s := ss.s
	s.mux.Lock()
	defer s.mux.Unlock()

	stored, err := s.conversationFor(ss.me, conversationID)
	if err != nil {
		return err
	}

	u := &Update{}
	for _, id := range s.history[conversationID] {
		m := s.messages[id]
		if m.SenderID == ss.me || m.IsReadBy(ss.me) {
			continue
		}
		read := m.clone()
		read.ReadBy = append(read.ReadBy, ss.me)
		u.Messages = append(u.Messages, read)
	}

	if stored.Unread[ss.me] != 0 {
		cr := stored.clone()
		cr.Unread[ss.me] = 0
		u.Conversations = []*ConversationRecord{cr}
	}

	if err = s.commit(u); err != nil {
		return err
	}
	jww.DEBUG.Printf("[CHAT] %s read %d messages in %s", ss.me,
		len(u.Messages), conversationID)
	return nil
}

// Open marks the conversation as the one the acting participant is looking
// at. Messages arriving while it is open are observed immediately and do not
// count as unread. Open does not mark earlier messages as read.
func (ss *Session) Open(conversationID string) error {
	s := ss.s
	s.mux.Lock()
	defer s.mux.Unlock()

	if _, err := s.conversationFor(ss.me, conversationID); err != nil {
		return err
	}
	s.open[ss.me] = conversationID
	return nil
}

// Close clears the open conversation of the acting participant.
func (ss *Session) Close() {
	s := ss.s
	s.mux.Lock()
	defer s.mux.Unlock()
	delete(s.open, ss.me)
}

// OpenConversation returns the conversation the acting participant has open.
func (ss *Session) OpenConversation() (string, bool) {
	s := ss.s
	s.mux.RLock()
	defer s.mux.RUnlock()
	id, ok := s.open[ss.me]
	return id, ok
}

// IsSeen reports whether a message sent by the acting participant has been
// observed by anyone else. Messages from other senders are never "seen" in
// this sense.
func (ss *Session) IsSeen(m Message) bool {
	return m.SenderID == ss.me && len(m.ReadBy) > 0
}

// UnreadFromReceipts derives the acting participant's unread count of the
// conversation from the messages' ReadBy sets.
func (ss *Session) UnreadFromReceipts(conversationID string) (int, error) {
	s := ss.s
	s.mux.RLock()
	defer s.mux.RUnlock()

	if _, err := s.conversationFor(ss.me, conversationID); err != nil {
		return 0, err
	}
	return s.unreadFromReceipts(conversationID, ss.me), nil
}

// Reconcile overwrites the acting participant's cached unread counter with
// the value derived from read receipts.
func (ss *Session) Reconcile(conversationID string) error {
	s := ss.s
	s.mux.Lock()
	defer s.mux.Unlock()

	stored, err := s.conversationFor(ss.me, conversationID)
	if err != nil {
		return err
	}

	derived := s.unreadFromReceipts(conversationID, ss.me)
	if stored.Unread[ss.me] == derived {
		return nil
	}
	jww.WARN.Printf("[CHAT] Unread counter of %s in %s was %d, receipts "+
		"give %d", ss.me, conversationID, stored.Unread[ss.me], derived)

	cr := stored.clone()
	cr.Unread[ss.me] = derived
	return s.commit(&Update{Conversations: []*ConversationRecord{cr}})
}

// unreadFromReceipts counts the messages of the conversation the participant
// did not send and has not read. The caller must hold the lock.
func (s *Store) unreadFromReceipts(conversationID, participantID string) int {
	n := 0
	for _, id := range s.history[conversationID] {
		m := s.messages[id]
		if m.SenderID != participantID && !m.IsReadBy(participantID) {
			n++
		}
	}
	return n
}
