////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

package chat

import "github.com/pkg/errors"

var (
	// NotFoundErr is returned when a conversation, message or participant ID
	// does not exist, or no longer exists after deletion.
	NotFoundErr = errors.New("the requested entity cannot be found")

	// ForbiddenErr is returned when the acting participant is not allowed to
	// perform the operation, such as editing another participant's message or
	// renaming a group they do not administer.
	ForbiddenErr = errors.New("the operation is not permitted for this participant")

	// InvalidArgumentErr is returned when a required field is empty or a
	// participant list is not acceptable.
	InvalidArgumentErr = errors.New("the passed argument is not valid")
)
