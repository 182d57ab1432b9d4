////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

// Package directory holds the read-only registry of participants that every
// conversation and message refers to.
package directory

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Presence is the availability a participant advertises.
type Presence uint8

const (
	// Offline is the default presence. It is the only presence that carries
	// a last seen time.
	Offline Presence = iota
	Online
	Away
	Busy
)

// String returns a human-readable version of [Presence], used for debugging
// and logging. This function adheres to the [fmt.Stringer] interface.
func (p Presence) String() string {
	switch p {
	case Offline:
		return "offline"
	case Online:
		return "online"
	case Away:
		return "away"
	case Busy:
		return "busy"
	default:
		return "Unknown presence " + strconv.Itoa(int(p))
	}
}

// ParsePresence returns the [Presence] named by s. Matching is case
// insensitive; an empty string is Offline.
func ParsePresence(s string) (Presence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "offline":
		return Offline, nil
	case "online":
		return Online, nil
	case "away":
		return Away, nil
	case "busy":
		return Busy, nil
	}
	return Offline, errors.Errorf("unknown presence %q", s)
}

// Participant is a single entry in the directory.
type Participant struct {
	ID          string
	DisplayName string
	Department  string
	Title       string
	Presence    Presence

	// LastSeen is only set while Presence is Offline.
	LastSeen *time.Time
}
