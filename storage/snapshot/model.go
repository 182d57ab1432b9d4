////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

// Package snapshot implements a chat.EventModel that keeps the entire state
// as a single versioned object in an ekv store.
package snapshot

import (
	"encoding/json"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"gitlab.com/elixxir/convo/chat"
	"gitlab.com/elixxir/convo/storage/versioned"
)

const (
	snapshotStoreKey     = "ConversationSnapshot"
	snapshotStoreVersion = 0
)

// model stores the state under one key. Every Apply rewrites the whole
// snapshot, so an update is either fully written or not at all.
// NOTE: This model is NOT thread safe - the chat.Store serialises calls.
type model struct {
	kv      *versioned.KV
	current *chat.Snapshot
	loaded  bool
}

// NewEventModel returns a [chat.EventModel] persisting to kv.
func NewEventModel(kv *versioned.KV) chat.EventModel {
	return &model{kv: kv.Prefix("convo")}
}

// Load returns the stored snapshot, or nil if nothing was stored yet.
func (m *model) Load() (*chat.Snapshot, error) {
	obj, err := m.kv.Get(snapshotStoreKey, snapshotStoreVersion)
	if err != nil {
		if !m.kv.Exists(err) {
			jww.DEBUG.Printf("[SNAPSHOT] No stored snapshot found")
			m.current, m.loaded = nil, true
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to load snapshot")
	}

	snap := &chat.Snapshot{}
	if err = json.Unmarshal(obj.Data, snap); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal snapshot")
	}

	jww.DEBUG.Printf("[SNAPSHOT] Loaded snapshot written at %s",
		obj.Timestamp)
	m.current, m.loaded = snap, true
	return snap, nil
}

// Apply merges the update into the stored snapshot and writes it back.
func (m *model) Apply(update *chat.Update) error {
	if update.IsEmpty() {
		return nil
	}
	if !m.loaded {
		if _, err := m.Load(); err != nil {
			return err
		}
	}

	next := m.current.Merge(update)
	data, err := json.Marshal(next)
	if err != nil {
		return errors.Wrap(err, "failed to marshal snapshot")
	}

	obj := versioned.NewObject(snapshotStoreVersion, data)
	if err = m.kv.Set(snapshotStoreKey, obj); err != nil {
		return errors.Wrap(err, "failed to store snapshot")
	}
	m.current = next
	return nil
}
