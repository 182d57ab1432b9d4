////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

package chat

import (
	"sort"
	"time"
)

// Attachment describes the file carried by a FileKind message.
type Attachment struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Reaction is a single emoji attached to a message by one participant. The
// reactor's display name is captured when the reaction is added.
type Reaction struct {
	Emoji       string `json:"emoji"`
	ReactorID   string `json:"reactorID"`
	ReactorName string `json:"reactorName"`
}

// Message is a single message owned by one conversation.
//
// ID, ConversationID, SenderID, Timestamp, Kind and Sequence never change
// once the message is created. File is non-nil if and only if Kind is
// FileKind, and ForwardedFrom is non-empty if and only if IsForwarded.
type Message struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversationID"`
	SenderID       string      `json:"senderID"`
	Content        string      `json:"content"`
	Kind           MessageKind `json:"kind"`
	File           *Attachment `json:"file,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`

	IsEdited      bool   `json:"isEdited"`
	IsForwarded   bool   `json:"isForwarded"`
	ForwardedFrom string `json:"forwardedFrom,omitempty"`

	// ReadBy lists the participants who have observed the message. It never
	// contains the sender.
	ReadBy []string `json:"readBy"`

	// Reactions holds at most one entry per (ReactorID, Emoji) pair, in the
	// order they were added.
	Reactions []Reaction `json:"reactions"`

	// Sequence is the creation order of the message within its store. It
	// breaks ties between messages with equal timestamps.
	Sequence uint64 `json:"sequence"`
}

// IsReadBy reports whether the participant has observed the message.
func (m *Message) IsReadBy(participantID string) bool {
	return contains(m.ReadBy, participantID)
}

// clone returns a deep copy of the message.
func (m *Message) clone() *Message {
	c := *m
	if m.File != nil {
		f := *m.File
		c.File = &f
	}
	c.ReadBy = append([]string(nil), m.ReadBy...)
	c.Reactions = append([]Reaction(nil), m.Reactions...)
	return &c
}

// before reports whether m sorts ahead of o in a conversation's history.
func (m *Message) before(o *Message) bool {
	if !m.Timestamp.Equal(o.Timestamp) {
		return m.Timestamp.Before(o.Timestamp)
	}
	return m.Sequence < o.Sequence
}

// ConversationRecord is the stored form of a conversation. Unread counters
// are kept per participant; the [Conversation] handed to callers is the view
// of a single participant.
type ConversationRecord struct {
	ID             string           `json:"id"`
	Kind           ConversationKind `json:"kind"`
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	CreatorID      string           `json:"creatorID,omitempty"`
	ParticipantIDs []string         `json:"participantIDs"`
	AdminIDs       []string         `json:"adminIDs"`

	LastMessagePreview   string    `json:"lastMessagePreview"`
	LastMessageTimestamp time.Time `json:"lastMessageTimestamp"`

	// Unread maps a participant ID to the number of messages that
	// participant has not acknowledged.
	Unread map[string]int `json:"unread"`
}

// HasParticipant reports whether id belongs to the conversation.
func (cr *ConversationRecord) HasParticipant(id string) bool {
	return contains(cr.ParticipantIDs, id)
}

// IsAdmin reports whether id administers the conversation.
func (cr *ConversationRecord) IsAdmin(id string) bool {
	return contains(cr.AdminIDs, id)
}

// clone returns a deep copy of the record.
func (cr *ConversationRecord) clone() *ConversationRecord {
	c := *cr
	c.ParticipantIDs = append([]string(nil), cr.ParticipantIDs...)
	c.AdminIDs = append([]string(nil), cr.AdminIDs...)
	c.Unread = make(map[string]int, len(cr.Unread))
	for id, n := range cr.Unread {
		c.Unread[id] = n
	}
	return &c
}

// Conversation is a conversation as seen by one participant.
type Conversation struct {
	ID             string
	Kind           ConversationKind
	Name           string
	Description    string
	CreatorID      string
	ParticipantIDs []string
	AdminIDs       []string

	LastMessagePreview   string
	LastMessageTimestamp time.Time

	// UnreadCount is the viewing participant's unread counter.
	UnreadCount int
}

// contains reports whether s holds v.
func contains(s []string, v string) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}

// remove returns s without any occurrence of v.
func remove(s []string, v string) []string {
	out := s[:0]
	for _, e := range s {
		if e != v {
			out = append(out, e)
		}
	}
	return out
}

// sortedCopy returns a sorted copy of s.
func sortedCopy(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}
