////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

// Package seed reads YAML bootstrap files. A file lists the participants of
// the directory together with the conversations and messages a new store
// starts with.
package seed

import (
	"bytes"
	_ "embed"
	"os"
	"time"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"gopkg.in/yaml.v3"

	"gitlab.com/elixxir/convo/chat"
	"gitlab.com/elixxir/convo/directory"
)

//go:embed default.yaml
var defaultSeed []byte

// File is the parsed form of a seed file.
type File struct {
	Participants  []Participant  `yaml:"participants"`
	Conversations []Conversation `yaml:"conversations"`
	Messages      []Message      `yaml:"messages"`
}

// Participant is a directory entry.
type Participant struct {
	ID         string     `yaml:"id"`
	Name       string     `yaml:"name"`
	Department string     `yaml:"department"`
	Title      string     `yaml:"title"`
	Presence   string     `yaml:"presence"`
	LastSeen   *time.Time `yaml:"lastSeen"`
}

// Conversation is a conversation record. Unread maps participant IDs to the
// counter they start with.
type Conversation struct {
	ID           string         `yaml:"id"`
	Kind         string         `yaml:"kind"`
	Name         string         `yaml:"name"`
	Description  string         `yaml:"description"`
	Creator      string         `yaml:"creator"`
	Participants []string       `yaml:"participants"`
	Admins       []string       `yaml:"admins"`
	Preview      string         `yaml:"preview"`
	Timestamp    time.Time      `yaml:"timestamp"`
	Unread       map[string]int `yaml:"unread"`
}

// Message is a message record. Its kind follows from whether a file is
// attached. Messages are installed in the order they are listed.
type Message struct {
	ID            string      `yaml:"id"`
	Conversation  string      `yaml:"conversation"`
	Sender        string      `yaml:"sender"`
	Content       string      `yaml:"content"`
	File          *Attachment `yaml:"file"`
	Timestamp     time.Time   `yaml:"timestamp"`
	Edited        bool        `yaml:"edited"`
	ForwardedFrom string      `yaml:"forwardedFrom"`
	ReadBy        []string    `yaml:"readBy"`
	Reactions     []Reaction  `yaml:"reactions"`
}

// Attachment is a file sent with a message.
type Attachment struct {
	Name string `yaml:"name"`
	Size int64  `yaml:"size"`
}

// Reaction is one emoji left by a participant.
type Reaction struct {
	Emoji string `yaml:"emoji"`
	By    string `yaml:"by"`
}

// Default returns the seed built into the binary.
func Default() (*File, error) {
	return Parse(defaultSeed)
}

// Load reads and parses the seed file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read seed file %s", path)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "seed file %s", path)
	}
	jww.INFO.Printf("[SEED] Loaded %s: %d participants, %d conversations, "+
		"%d messages", path, len(f.Participants), len(f.Conversations),
		len(f.Messages))
	return f, nil
}

// Parse decodes a seed document. Unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	f := &File{}
	if err := dec.Decode(f); err != nil {
		return nil, errors.Wrap(err, "failed to parse seed")
	}
	return f, nil
}

// Directory builds the participant directory.
func (f *File) Directory() (*directory.Static, error) {
	participants := make([]directory.Participant, len(f.Participants))
	for i, p := range f.Participants {
		presence, err := directory.ParsePresence(p.Presence)
		if err != nil {
			return nil, errors.WithMessagef(err, "participant %s", p.ID)
		}
		participants[i] = directory.Participant{
			ID:          p.ID,
			DisplayName: p.Name,
			Department:  p.Department,
			Title:       p.Title,
			Presence:    presence,
			LastSeen:    p.LastSeen,
		}
	}
	return directory.NewStatic(participants...)
}

// Snapshot converts the conversations and messages into the bootstrap form
// accepted by chat.NewStore. Reactor names are resolved through dir.
func (f *File) Snapshot(dir directory.Directory) (*chat.Snapshot, error) {
	snap := &chat.Snapshot{
		Conversations: make([]*chat.ConversationRecord, len(f.Conversations)),
		Messages:      make([]*chat.Message, len(f.Messages)),
	}

	for i, c := range f.Conversations {
		kind, err := chat.ParseConversationKind(c.Kind)
		if err != nil {
			return nil, errors.WithMessagef(err, "conversation %s", c.ID)
		}
		snap.Conversations[i] = &chat.ConversationRecord{
			ID:                   c.ID,
			Kind:                 kind,
			Name:                 c.Name,
			Description:          c.Description,
			CreatorID:            c.Creator,
			ParticipantIDs:       c.Participants,
			AdminIDs:             c.Admins,
			LastMessagePreview:   c.Preview,
			LastMessageTimestamp: c.Timestamp,
			Unread:               c.Unread,
		}
	}

	for i, m := range f.Messages {
		msg := &chat.Message{
			ID:             m.ID,
			ConversationID: m.Conversation,
			SenderID:       m.Sender,
			Content:        m.Content,
			Kind:           chat.TextKind,
			Timestamp:      m.Timestamp,
			IsEdited:       m.Edited,
			IsForwarded:    m.ForwardedFrom != "",
			ForwardedFrom:  m.ForwardedFrom,
			ReadBy:         m.ReadBy,
		}
		if m.File != nil {
			msg.Kind = chat.FileKind
			msg.File = &chat.Attachment{Name: m.File.Name, Size: m.File.Size}
		}
		for _, r := range m.Reactions {
			msg.Reactions = append(msg.Reactions, chat.Reaction{
				Emoji:       r.Emoji,
				ReactorID:   r.By,
				ReactorName: dir.DisplayName(r.By),
			})
		}
		snap.Messages[i] = msg
	}

	return snap, nil
}
