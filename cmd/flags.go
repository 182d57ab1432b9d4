////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

package cmd

// This is a comprehensive list of CLI flag name constants. Organized by
// subcommand, with root level CLI flags at the top of the list. Newly added
// flags for any existing or new subcommands should be listed and organized
// here. Pulling flags using Viper should use the constants defined here.
const (
	//////////////// Root flags ///////////////////////////////////////////////

	// Config
	configFlag = "config"

	// Log flags
	logLevelFlag = "logLevel"
	logFlag      = "log"

	// Storage
	sessionFlag  = "session"
	passwordFlag = "password"
	dbFlag       = "db"
	seedFlag     = "seed"

	// Misc
	userFlag       = "user"
	profileCpuFlag = "profile-cpu"

	///////////////// Message subcommand flags ////////////////////////////////
	conversationFlag = "conversation"
	messageFlag      = "message"
	messageIdFlag    = "id"
	fileNameFlag     = "file-name"
	fileSizeFlag     = "file-size"
	forwardToFlag    = "to"
	emojiFlag        = "emoji"

	///////////////// Conversation subcommand flags ///////////////////////////
	filterFlag       = "filter"
	searchFlag       = "search"
	reconcileFlag    = "reconcile"
	nameFlag         = "name"
	descriptionFlag  = "description"
	participantsFlag = "participants"
	withFlag         = "with"
	addFlag          = "add"
	removeFlag       = "remove"
	promoteFlag      = "promote"
	leaveFlag        = "leave"
)
