////////////////////////////////////////////////////////////////////////////////
// Copyright © 2023 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file                                                               //
////////////////////////////////////////////////////////////////////////////////

// Handles low level database control and interfaces

package storage

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gitlab.com/elixxir/convo/chat"
)

// impl implements the chat.EventModel interface with an underlying DB.
// NOTE: This model is NOT thread safe - the chat.Store serialises calls.
type impl struct {
	db *gorm.DB // Stored database connection
}

// NewEventModel initializes the [chat.EventModel] interface with a SQLite
// backend. An empty path selects a temporary in-memory database.
func NewEventModel(dbFilePath string) (chat.EventModel, error) {
	useTemporary := len(dbFilePath) == 0
	model, err := newImpl(dbFilePath, useTemporary)
	if err != nil {
		return nil, err
	}
	return chat.EventModel(model), nil
}

// If useTemporary is set to true, this will use an in-RAM database named
// after dbFilePath.
func newImpl(dbFilePath string, useTemporary bool) (*impl, error) {
	if useTemporary {
		dbFilePath = fmt.Sprintf(temporaryDbPath, dbFilePath)
		jww.WARN.Printf("[CHAT SQL] No database file path specified! " +
			"Using temporary in-memory database")
	}

	// Create the database connection
	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{
		Logger: logger.New(jww.TRACE, logger.Config{LogLevel: logger.Info}),
	})
	if err != nil {
		return nil, errors.Errorf(
			"Unable to initialize database backend: %+v", err)
	}

	// Enable foreign keys because they are disabled in SQLite by default
	if err = db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}

	// Enable Write Ahead Logging to enable multiple DB connections
	if err = db.Exec("PRAGMA journal_mode = WAL;").Error; err != nil {
		return nil, err
	}

	// Get and configure the internal database ConnPool
	sqlDb, err := db.DB()
	if err != nil {
		return nil, errors.Errorf(
			"Unable to configure database connection pool: %+v", err)
	}

	// A single writer keeps the pragmas above in effect for every statement
	sqlDb.SetMaxIdleConns(1)
	sqlDb.SetMaxOpenConns(1)
	sqlDb.SetConnMaxIdleTime(5 * time.Minute)
	sqlDb.SetConnMaxLifetime(0)

	// Initialize the database schema
	// WARNING: Order is important. Do not change without database testing
	err = db.AutoMigrate(&Conversation{}, &Message{}, &Tombstone{})
	if err != nil {
		return nil, err
	}

	jww.INFO.Println("[CHAT SQL] Database backend initialized successfully!")
	return &impl{db: db}, nil
}
