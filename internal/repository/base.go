// Package repository provides data access for diaries, users and the
// collaboration workflow. Each repository pairs an interface with a GORM
// implementation; reads that tolerate replica lag go through readDB.
package repository

import (
	"errors"

	"lantern/internal/database"

	"gorm.io/gorm"
)

// ErrAlreadyExists signals a unique constraint hit on insert. The
// collaboration repository returns it when two requests race on the same
// (diary, user) pair; callers treat the loser as an idempotent success.
var ErrAlreadyExists = errors.New("row already exists")

// readDB routes list and lookup queries to the read replica when one is
// configured. Writes and read-after-write paths stay on the primary.
func readDB(primary *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return primary
}
