////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

package storage

import (
	"time"

	"gitlab.com/elixxir/convo/chat"
)

// Conversation defines the database representation of a single
// conversation. A Conversation has many Message objects.
//
// Participant lists and unread counters are small and always read whole, so
// they are kept as JSON columns rather than join tables.
type Conversation struct {
	Id                   string         `gorm:"primaryKey;not null;autoIncrement:false"`
	Kind                 uint8          `gorm:"not null"`
	Name                 string         `gorm:"not null"`
	Description          string         `gorm:"not null"`
	CreatorId            string         `gorm:"not null"`
	Participants         []string       `gorm:"serializer:json"`
	Admins               []string       `gorm:"serializer:json"`
	LastMessagePreview   string         `gorm:"not null"`
	LastMessageTimestamp time.Time      `gorm:"index;not null"`
	Unread               map[string]int `gorm:"serializer:json"`

	// Have to spell out this relationship because of the string PK
	Messages []Message `gorm:"foreignKey:ConversationId;references:Id;constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name used by Conversation.
func (Conversation) TableName() string {
	return "convo_conversations"
}

// Message defines the database representation of a single Message.
//
// A Message belongs to one Conversation.
type Message struct {
	Id             string           `gorm:"primaryKey;not null;autoIncrement:false"`
	Sequence       uint64           `gorm:"uniqueIndex;not null"`
	ConversationId string           `gorm:"index;not null"`
	SenderId       string           `gorm:"index;not null"`
	Content        string           `gorm:"not null"`
	Kind           uint8            `gorm:"not null"`
	File           *chat.Attachment `gorm:"serializer:json"`
	Timestamp      time.Time        `gorm:"index;not null"`
	IsEdited       bool             `gorm:"not null"`
	IsForwarded    bool             `gorm:"not null"`
	ForwardedFrom  string           `gorm:"not null"`
	ReadBy         []string         `gorm:"serializer:json"`
	Reactions      []chat.Reaction  `gorm:"serializer:json"`
}

// TableName overrides the table name used by Message.
func (Message) TableName() string {
	return "convo_messages"
}

// Tombstone records the ID of a deleted message so it is never handed out
// again.
type Tombstone struct {
	MessageId string    `gorm:"primaryKey;not null;autoIncrement:false"`
	DeletedAt time.Time `gorm:"not null"`
}

// TableName overrides the table name used by Tombstone.
func (Tombstone) TableName() string {
	return "convo_tombstones"
}

// buildConversation converts a record into its database representation.
func buildConversation(c *chat.ConversationRecord) *Conversation {
	return &Conversation{
		Id:                   c.ID,
		Kind:                 uint8(c.Kind),
		Name:                 c.Name,
		Description:          c.Description,
		CreatorId:            c.CreatorID,
		Participants:         c.ParticipantIDs,
		Admins:               c.AdminIDs,
		LastMessagePreview:   c.LastMessagePreview,
		LastMessageTimestamp: c.LastMessageTimestamp,
		Unread:               c.Unread,
	}
}

// record converts the row back into a chat record.
func (c *Conversation) record() *chat.ConversationRecord {
	return &chat.ConversationRecord{
		ID:                   c.Id,
		Kind:                 chat.ConversationKind(c.Kind),
		Name:                 c.Name,
		Description:          c.Description,
		CreatorID:            c.CreatorId,
		ParticipantIDs:       c.Participants,
		AdminIDs:             c.Admins,
		LastMessagePreview:   c.LastMessagePreview,
		LastMessageTimestamp: c.LastMessageTimestamp,
		Unread:               c.Unread,
	}
}

// buildMessage converts a chat message into its database representation.
func buildMessage(m *chat.Message) *Message {
	return &Message{
		Id:             m.ID,
		Sequence:       m.Sequence,
		ConversationId: m.ConversationID,
		SenderId:       m.SenderID,
		Content:        m.Content,
		Kind:           uint8(m.Kind),
		File:           m.File,
		Timestamp:      m.Timestamp,
		IsEdited:       m.IsEdited,
		IsForwarded:    m.IsForwarded,
		ForwardedFrom:  m.ForwardedFrom,
		ReadBy:         m.ReadBy,
		Reactions:      m.Reactions,
	}
}

// message converts the row back into a chat message.
func (m *Message) message() *chat.Message {
	return &chat.Message{
		ID:             m.Id,
		ConversationID: m.ConversationId,
		SenderID:       m.SenderId,
		Content:        m.Content,
		Kind:           chat.MessageKind(m.Kind),
		File:           m.File,
		Timestamp:      m.Timestamp,
		IsEdited:       m.IsEdited,
		IsForwarded:    m.IsForwarded,
		ForwardedFrom:  m.ForwardedFrom,
		ReadBy:         m.ReadBy,
		Reactions:      m.Reactions,
		Sequence:       m.Sequence,
	}
}
