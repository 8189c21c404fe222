// Package accounts reads the external account store: platform accounts with
// the session cookies the login flow captured for them. The store is owned by
// an external system; this package only looks records up and never writes.
package accounts

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Cookie is a single session cookie captured at login time.
type Cookie struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

// Account is one stored platform account. The orchestration core holds a
// read-only reference to exactly one Account for the lifetime of a run.
type Account struct {
	Username  string    `toml:"username"`
	Platform  string    `toml:"platform"`
	Cookies   []Cookie  `toml:"cookies"`
	LoggedIn  bool      `toml:"logged_in"`
	LastLogin time.Time `toml:"last_login"`
}

type storeFile struct {
	Accounts []Account `toml:"accounts"`
}

// Store reads accounts from a TOML file. The file is re-read on each lookup
// so an external login flow can update it between runs.
type Store struct {
	path string
}

// NewStore creates a Store backed by the given TOML file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// FindLoggedIn returns the most recently authenticated logged-in account for
// the given platform identifier. Absence of a match is a normal outcome and
// is reported through the boolean, not an error.
func (s *Store) FindLoggedIn(platform string) (*Account, bool, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, false, fmt.Errorf("reading account store %s: %w", s.path, err)
	}

	var file storeFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return nil, false, fmt.Errorf("parsing account store %s: %w", s.path, err)
	}

	var matches []Account
	for _, a := range file.Accounts {
		if a.Platform == platform && a.LoggedIn {
			matches = append(matches, a)
		}
	}
	if len(matches) == 0 {
		return nil, false, nil
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].LastLogin.After(matches[j].LastLogin)
	})
	acct := matches[0]
	return &acct, true, nil
}
