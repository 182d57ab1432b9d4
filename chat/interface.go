////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

package chat

import "sort"

// EventModel is the persistence hook of a [Store]. Implementations receive
// every state transition as one [Update] and must apply it atomically: either
// all of it is durable when Apply returns nil, or none of it is.
//
// The store holds its lock across Apply, so calls are never concurrent for a
// given store. Apply must not retain or modify the update.
type EventModel interface {
	// Load returns the persisted state. A nil or empty snapshot means nothing
	// has been stored yet.
	Load() (*Snapshot, error)

	// Apply persists a single transition.
	Apply(update *Update) error
}

// Update is the change set produced by one operation.
type Update struct {
	// Conversations are full records to insert or replace.
	Conversations []*ConversationRecord

	// Messages are full records to insert or replace.
	Messages []*Message

	// DeletedMessageIDs are removed from their conversations. They must not
	// be reused.
	DeletedMessageIDs []string
}

// IsEmpty reports whether the update changes nothing.
func (u *Update) IsEmpty() bool {
	return u == nil || (len(u.Conversations) == 0 && len(u.Messages) == 0 &&
		len(u.DeletedMessageIDs) == 0)
}

// Snapshot is the complete state of a store. It doubles as the bootstrap
// format accepted through [Params.Seed].
type Snapshot struct {
	Conversations []*ConversationRecord `json:"conversations"`
	Messages      []*Message            `json:"messages"`

	// DeletedMessageIDs are tombstones of removed messages.
	DeletedMessageIDs []string `json:"deletedMessageIDs,omitempty"`
}

// IsEmpty reports whether the snapshot holds no state.
func (snap *Snapshot) IsEmpty() bool {
	return snap == nil || (len(snap.Conversations) == 0 &&
		len(snap.Messages) == 0 && len(snap.DeletedMessageIDs) == 0)
}

// Merge returns a new snapshot with the update applied. The receiver is not
// modified; a nil receiver is treated as empty.
func (snap *Snapshot) Merge(u *Update) *Snapshot {
	conversations := make(map[string]*ConversationRecord)
	messages := make(map[string]*Message)
	deleted := make(map[string]struct{})
	if snap != nil {
		for _, c := range snap.Conversations {
			conversations[c.ID] = c
		}
		for _, m := range snap.Messages {
			messages[m.ID] = m
		}
		for _, id := range snap.DeletedMessageIDs {
			deleted[id] = struct{}{}
		}
	}

	if u != nil {
		for _, c := range u.Conversations {
			conversations[c.ID] = c.clone()
		}
		for _, m := range u.Messages {
			messages[m.ID] = m.clone()
		}
		for _, id := range u.DeletedMessageIDs {
			delete(messages, id)
			deleted[id] = struct{}{}
		}
	}

	out := &Snapshot{
		Conversations: make([]*ConversationRecord, 0, len(conversations)),
		Messages:      make([]*Message, 0, len(messages)),
	}
	for _, c := range conversations {
		out.Conversations = append(out.Conversations, c)
	}
	sort.Slice(out.Conversations, func(i, j int) bool {
		return out.Conversations[i].ID < out.Conversations[j].ID
	})
	for _, m := range messages {
		out.Messages = append(out.Messages, m)
	}
	sort.Slice(out.Messages, func(i, j int) bool {
		return out.Messages[i].Sequence < out.Messages[j].Sequence
	})
	for id := range deleted {
		out.DeletedMessageIDs = append(out.DeletedMessageIDs, id)
	}
	sort.Strings(out.DeletedMessageIDs)
	return out
}
