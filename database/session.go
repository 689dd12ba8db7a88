// This file is part of Verihost.
//
// Verihost is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Verihost is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Verihost.  If not, see <https://www.gnu.org/licenses/>.


package database

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/jetsetilly/verihost/curated"
)

// NotAvailable is returned by StartSession() when a database file is opened
// for reading but does not exist.
const NotAvailable = "database: not available (%s)"

// Activity is used to specify the general activity of what will be occurring
// during the database session.
type Activity int

// Valid activities: the "higher level" activities inherit the activity
// abilities of the activity levels lower down the scale.
const (
	ActivityReading Activity = iota

	// Modifying implies Reading
	ActivityModifying

	// Creating implies Modifying (which in turn implies Reading)
	ActivityCreating
)

// Session keeps track of a database session.
type Session struct {
	path     string
	activity Activity

	entries    map[int]Entry
	entryTypes map[string]Deserialiser
}

// StartSession starts/initialises a new DB session. The init function is
// called before the file is read and should register the entry types that
// the database will contain.
func StartSession(path string, activity Activity, init func(*Session) error) (*Session, error) {
	db := &Session{
		path:       path,
		activity:   activity,
		entries:    make(map[int]Entry),
		entryTypes: make(map[string]Deserialiser),
	}

	if err := init(db); err != nil {
		return nil, curated.Errorf("database: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, curated.Errorf("database: %v", err)
		}
		if activity != ActivityCreating {
			return nil, curated.Errorf(NotAvailable, path)
		}
	}

	if err := db.parse(string(data)); err != nil {
		return nil, err
	}

	return db, nil
}

// EndSession closes the database. Entries are written to disk if
// commitChanges is true and the session activity allows it.
func (db *Session) EndSession(commitChanges bool) error {
	if !commitChanges || db.activity == ActivityReading {
		return nil
	}

	s := strings.Builder{}
	for _, key := range db.SortedKeyList() {
		l, err := serialise(key, db.entries[key])
		if err != nil {
			return err
		}
		s.WriteString(l)
	}

	if err := os.WriteFile(db.path, []byte(s.String()), 0600); err != nil {
		return curated.Errorf("database: %v", err)
	}

	return nil
}

func (db *Session) parse(data string) error {
	for i, l := range strings.Split(data, entrySep) {
		l = strings.TrimSpace(l)
		if len(l) == 0 {
			continue
		}

		fields := strings.Split(l, fieldSep)
		if len(fields) < numLeaderFields {
			return curated.Errorf("database: %v", fmt.Sprintf("malformed entry at line %d", i+1))
		}

		key, err := strconv.Atoi(fields[leaderFieldKey])
		if err != nil {
			return curated.Errorf("database: %v", fmt.Sprintf("invalid key (%s) at line %d", fields[leaderFieldKey], i+1))
		}

		if _, ok := db.entries[key]; ok {
			return curated.Errorf("database: %v", fmt.Sprintf("duplicate key (%d) at line %d", key, i+1))
		}

		des, ok := db.entryTypes[fields[leaderFieldID]]
		if !ok {
			return curated.Errorf("database: %v", fmt.Sprintf("unrecognised entry type (%s) at line %d", fields[leaderFieldID], i+1))
		}

		ent, err := des(key, fields[numLeaderFields:])
		if err != nil {
			return curated.Errorf("database: %v", err)
		}

		db.entries[key] = ent
	}

	return nil
}
