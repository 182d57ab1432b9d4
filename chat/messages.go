////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

package chat

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
)

const (
	// previewLimit is the number of runes of a forwarded message kept in the
	// conversation preview.
	previewLimit = 30

	filePreviewPrefix    = "📎 "
	forwardPreviewPrefix = "Forwarded: "
	ellipsis             = "..."
)

// Send appends a text message to the conversation.
func (ss *Session) Send(conversationID, content string) (Message, error) {
	jww.TRACE.Printf("[CHAT] Send(%s, %s)", ss.me, conversationID)
	if strings.TrimSpace(content) == "" {
		return Message{}, errors.Wrap(InvalidArgumentErr,
			"message content cannot be empty")
	}
	return ss.append(conversationID, &Message{
		Content: content,
		Kind:    TextKind,
	})
}

// SendFile appends a file message to the conversation. The content is an
// optional caption.
func (ss *Session) SendFile(conversationID, content string, file Attachment) (Message, error) {
	jww.TRACE.Printf("[CHAT] SendFile(%s, %s, %s)", ss.me, conversationID,
		file.Name)
	if strings.TrimSpace(file.Name) == "" {
		return Message{}, errors.Wrap(InvalidArgumentErr,
			"file name cannot be empty")
	}
	if file.Size < 0 {
		return Message{}, errors.Wrapf(InvalidArgumentErr,
			"file size %d is negative", file.Size)
	}
	return ss.append(conversationID, &Message{
		Content: content,
		Kind:    FileKind,
		File:    &file,
	})
}

// append stamps the partially built message, accounts it for every other
// participant and commits it together with the refreshed preview.
func (ss *Session) append(conversationID string, m *Message) (Message, error) {
	s := ss.s
	s.mux.Lock()
	defer s.mux.Unlock()

	stored, err := s.conversationFor(ss.me, conversationID)
	if err != nil {
		return Message{}, err
	}
	if err = checkCanPost(stored, ss.me); err != nil {
		return Message{}, err
	}

	m.ID = s.newMessageID()
	m.ConversationID = conversationID
	m.SenderID = ss.me
	m.Timestamp = s.now()
	m.Sequence = s.nextSequence
	m.ReadBy = []string{}
	m.Reactions = []Reaction{}
	s.nextSequence++

	cr := stored.clone()
	cr.LastMessagePreview = previewOf(m)
	cr.LastMessageTimestamp = m.Timestamp
	s.deliver(cr, m)

	err = s.commit(&Update{
		Conversations: []*ConversationRecord{cr},
		Messages:      []*Message{m},
	})
	if err != nil {
		return Message{}, err
	}

	jww.DEBUG.Printf("[CHAT] %s appended %s message %s to %s",
		ss.me, m.Kind, m.ID, conversationID)
	return *m.clone(), nil
}

// Edit replaces the content of a message sent by the acting participant. The
// ID, timestamp and every other write-once field are kept.
func (ss *Session) Edit(messageID, newContent string) (Message, error) {
	jww.TRACE.Printf("[CHAT] Edit(%s, %s)", ss.me, messageID)
	if strings.TrimSpace(newContent) == "" {
		return Message{}, errors.Wrap(InvalidArgumentErr,
			"message content cannot be empty")
	}

	s := ss.s
	s.mux.Lock()
	defer s.mux.Unlock()

	stored, storedConv, err := s.messageFor(ss.me, messageID)
	if err != nil {
		return Message{}, err
	}
	if stored.SenderID != ss.me {
		return Message{}, errors.Wrapf(ForbiddenErr,
			"%s cannot edit message %s sent by %s",
			ss.me, messageID, stored.SenderID)
	}

	m := stored.clone()
	m.Content = newContent
	m.IsEdited = true
	u := &Update{Messages: []*Message{m}}

	if s.latest(m.ConversationID, "") == stored {
		cr := storedConv.clone()
		cr.LastMessagePreview = previewOf(m)
		u.Conversations = []*ConversationRecord{cr}
	}

	if err = s.commit(u); err != nil {
		return Message{}, err
	}
	return *m.clone(), nil
}

// Forward copies a message into the target conversation as a new message
// sent by the acting participant. The original sender's display name is
// captured as provenance; the source message is not changed.
func (ss *Session) Forward(messageID, targetConversationID string) (Message, error) {
	jww.TRACE.Printf("[CHAT] Forward(%s, %s, %s)", ss.me, messageID,
		targetConversationID)

	s := ss.s
	s.mux.Lock()
	defer s.mux.Unlock()

	src, _, err := s.messageFor(ss.me, messageID)
	if err != nil {
		return Message{}, err
	}
	stored, err := s.conversationFor(ss.me, targetConversationID)
	if err != nil {
		return Message{}, err
	}
	if err = checkCanPost(stored, ss.me); err != nil {
		return Message{}, err
	}

	// A forward of a forward still names the original author
	from := src.ForwardedFrom
	if !src.IsForwarded {
		from = s.dir.DisplayName(src.SenderID)
	}

	m := &Message{
		ID:             s.newMessageID(),
		ConversationID: targetConversationID,
		SenderID:       ss.me,
		Content:        src.Content,
		Kind:           src.Kind,
		Timestamp:      s.now(),
		IsForwarded:    true,
		ForwardedFrom:  from,
		ReadBy:         []string{},
		Reactions:      []Reaction{},
		Sequence:       s.nextSequence,
	}
	if src.File != nil {
		f := *src.File
		m.File = &f
	}
	s.nextSequence++

	cr := stored.clone()
	cr.LastMessagePreview = previewOf(m)
	cr.LastMessageTimestamp = m.Timestamp
	s.deliver(cr, m)

	err = s.commit(&Update{
		Conversations: []*ConversationRecord{cr},
		Messages:      []*Message{m},
	})
	if err != nil {
		return Message{}, err
	}

	jww.DEBUG.Printf("[CHAT] %s forwarded %s into %s as %s",
		ss.me, messageID, targetConversationID, m.ID)
	return *m.clone(), nil
}

// Delete removes a message sent by the acting participant. Deleting an
// unknown or already deleted message returns NotFoundErr.
//
// Participants who had not read the message have their unread counter
// lowered so the counters keep matching the read receipts.
func (ss *Session) Delete(messageID string) error {
	jww.TRACE.Printf("[CHAT] Delete(%s, %s)", ss.me, messageID)

	s := ss.s
	s.mux.Lock()
	defer s.mux.Unlock()

	stored, storedConv, err := s.messageFor(ss.me, messageID)
	if err != nil {
		return err
	}
	if stored.SenderID != ss.me {
		return errors.Wrapf(ForbiddenErr, "%s cannot delete message %s sent by %s",
			ss.me, messageID, stored.SenderID)
	}

	cr := storedConv.clone()
	for _, p := range cr.ParticipantIDs {
		if p == stored.SenderID || stored.IsReadBy(p) {
			continue
		}
		if cr.Unread[p] > 0 {
			cr.Unread[p]--
		}
	}

	if s.latest(cr.ID, "") == stored {
		if next := s.latest(cr.ID, messageID); next != nil {
			cr.LastMessagePreview = previewOf(next)
			cr.LastMessageTimestamp = next.Timestamp
		} else {
			cr.LastMessagePreview = ""
		}
	}

	return s.commit(&Update{
		Conversations:     []*ConversationRecord{cr},
		DeletedMessageIDs: []string{messageID},
	})
}

// ListByConversation returns the messages of the conversation ordered by
// timestamp, ties broken by creation order. Every call recomputes the list
// from the current state.
func (ss *Session) ListByConversation(conversationID string) ([]Message, error) {
	s := ss.s
	s.mux.RLock()
	defer s.mux.RUnlock()

	if _, err := s.conversationFor(ss.me, conversationID); err != nil {
		return nil, err
	}

	ids := s.history[conversationID]
	sorted := make([]*Message, len(ids))
	for i, id := range ids {
		sorted[i] = s.messages[id]
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].before(sorted[j])
	})

	out := make([]Message, len(sorted))
	for i, m := range sorted {
		out[i] = *m.clone()
	}
	return out, nil
}

// Message returns a single message from a conversation the acting
// participant belongs to.
func (ss *Session) Message(messageID string) (Message, error) {
	s := ss.s
	s.mux.RLock()
	defer s.mux.RUnlock()

	m, _, err := s.messageFor(ss.me, messageID)
	if err != nil {
		return Message{}, err
	}
	return *m.clone(), nil
}

// checkCanPost rejects posts into a broadcast by anyone other than its
// administrators.
func checkCanPost(cr *ConversationRecord, me string) error {
	if cr.Kind == Broadcast && !cr.IsAdmin(me) {
		return errors.Wrapf(ForbiddenErr,
			"only administrators can post to broadcast %s", cr.ID)
	}
	return nil
}

// previewOf returns the conversation preview for a message.
func previewOf(m *Message) string {
	body := m.Content
	if m.Kind == FileKind && m.File != nil {
		body = filePreviewPrefix + m.File.Name
	}
	if m.IsForwarded {
		return forwardPreviewPrefix + truncate(body, previewLimit)
	}
	return body
}

// truncate shortens s to at most limit runes, marking the cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + ellipsis
}
