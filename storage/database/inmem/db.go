package inmemdb

import (
	"sync"

	"github.com/edusuite/darasa/core/user"
)

type (
	DB struct {
		user *userTable
	}

	userTable struct {
		mutex sync.RWMutex
		table map[string]*user.User // keyed by ID
	}
)

func NewDB() *DB {
	return &DB{
		user: &userTable{table: make(map[string]*user.User)},
	}
}

// Reset drops all rows. For tests.
func (db *DB) Reset() {
	db.user.mutex.Lock()
	defer db.user.mutex.Unlock()
	db.user.table = make(map[string]*user.User)
}
