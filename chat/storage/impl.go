////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"gitlab.com/xx_network/primitives/netTime"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gitlab.com/elixxir/convo/chat"
)

const (
	// Can be provided to SqlLite to create a temporary, in-memory DB.
	temporaryDbPath = "file:%s?mode=memory&cache=shared"

	// Determines maximum runtime (in seconds) of DB queries.
	dbTimeout = 3 * time.Second
)

// newContext builds a context for database operations.
func newContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

// Load reads every conversation, message and tombstone. Messages are returned
// in creation order.
func (i *impl) Load() (*chat.Snapshot, error) {
	jww.TRACE.Printf("[CHAT SQL] Load()")

	var (
		conversations []Conversation
		messages      []Message
		tombstones    []Tombstone
	)

	ctx, cancel := newContext()
	defer cancel()
	db := i.db.WithContext(ctx)

	if err := db.Order("id").Find(&conversations).Error; err != nil {
		return nil, errors.Errorf("failed to load conversations: %+v", err)
	}
	if err := db.Order("sequence").Find(&messages).Error; err != nil {
		return nil, errors.Errorf("failed to load messages: %+v", err)
	}
	if err := db.Order("message_id").Find(&tombstones).Error; err != nil {
		return nil, errors.Errorf("failed to load tombstones: %+v", err)
	}

	snap := &chat.Snapshot{
		Conversations: make([]*chat.ConversationRecord, len(conversations)),
		Messages:      make([]*chat.Message, len(messages)),
	}
	for j := range conversations {
		snap.Conversations[j] = conversations[j].record()
	}
	for j := range messages {
		snap.Messages[j] = messages[j].message()
	}
	for _, t := range tombstones {
		snap.DeletedMessageIDs = append(snap.DeletedMessageIDs, t.MessageId)
	}

	jww.DEBUG.Printf("[CHAT SQL] Loaded %d conversations, %d messages and "+
		"%d tombstones", len(conversations), len(messages), len(tombstones))
	return snap, nil
}

// Apply writes the update in a single transaction.
func (i *impl) Apply(update *chat.Update) error {
	if update.IsEmpty() {
		return nil
	}
	jww.TRACE.Printf("[CHAT SQL] Apply(%d conversations, %d messages, "+
		"%d deletions)", len(update.Conversations), len(update.Messages),
		len(update.DeletedMessageIDs))

	ctx, cancel := newContext()
	defer cancel()

	err := i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range update.Conversations {
			if err := upsert(tx, buildConversation(c)); err != nil {
				return errors.Wrapf(err, "failed to upsert conversation %s",
					c.ID)
			}
		}
		for _, m := range update.Messages {
			if err := upsert(tx, buildMessage(m)); err != nil {
				return errors.Wrapf(err, "failed to upsert message %s", m.ID)
			}
		}
		if len(update.DeletedMessageIDs) > 0 {
			return deleteMessages(tx, update.DeletedMessageIDs)
		}
		return nil
	})
	if err != nil {
		return errors.Errorf("[CHAT SQL] failed to apply update: %+v", err)
	}
	return nil
}

// upsert inserts the row or overwrites every column of an existing one.
func upsert(tx *gorm.DB, row interface{}) error {
	return tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(row).Error
}

// deleteMessages removes the messages and leaves a tombstone for each ID.
func deleteMessages(tx *gorm.DB, messageIDs []string) error {
	err := tx.Where("id IN ?", messageIDs).Delete(&Message{}).Error
	if err != nil {
		return errors.Wrap(err, "failed to delete messages")
	}

	now := netTime.Now()
	tombstones := make([]Tombstone, len(messageIDs))
	for j, id := range messageIDs {
		tombstones[j] = Tombstone{MessageId: id, DeletedAt: now}
	}
	err = tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&tombstones).Error
	return errors.Wrap(err, "failed to record tombstones")
}
