////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

// Package emoji validates the emoji used as message reactions.
package emoji

import (
	"github.com/forPelevin/gomoji"
	"github.com/pkg/errors"
)

var (
	// InvalidReaction is returned if the passed reaction string is not a
	// single emoji.
	InvalidReaction = errors.New(
		"the reaction is not valid, it must be a single emoji")
)

// SupportedEmojis returns a list of emojis that can be used as reactions.
func SupportedEmojis() []gomoji.Emoji {
	return gomoji.AllEmojis()
}

// ValidateReaction checks that the reaction is exactly one emoji with nothing
// around it. Returns InvalidReaction otherwise.
func ValidateReaction(reaction string) error {
	if reaction == "" {
		return InvalidReaction
	}

	found := gomoji.CollectAll(reaction)
	switch {
	case len(found) != 1:
		return InvalidReaction
	case found[0].Character != reaction:
		// Something other than the emoji is in the string
		return InvalidReaction
	}

	return nil
}
