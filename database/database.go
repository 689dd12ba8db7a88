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
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jetsetilly/verihost/curated"
)

const maxEntries = 1000

const fieldSep = ","
const entrySep = "\n"

// the first two fields of every entry
const (
	leaderFieldKey int = iota
	leaderFieldID
	numLeaderFields
)

func recordHeader(key int, id string) string {
	return fmt.Sprintf("%03d%s%s", key, fieldSep, id)
}

// NumEntries returns the number of entries in the database.
func (db Session) NumEntries() int {
	return len(db.entries)
}

// SortedKeyList returns the keys of every entry in ascending order.
func (db Session) SortedKeyList() []int {
	keyList := make([]int, 0, len(db.entries))
	for k := range db.entries {
		keyList = append(keyList, k)
	}
	sort.Ints(keyList)
	return keyList
}

// List the entries in key order.
func (db Session) List(output io.Writer) error {
	if db.NumEntries() == 0 {
		_, err := io.WriteString(output, "database is empty\n")
		return err
	}

	for _, key := range db.SortedKeyList() {
		if _, err := fmt.Fprintf(output, "%03d %s\n", key, db.entries[key]); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(output, "Total: %d\n", db.NumEntries())
	return err
}

// Add an entry to the database. The entry is given the lowest unused key,
// which is returned.
func (db *Session) Add(ent Entry) (int, error) {
	if db.activity == ActivityReading {
		return -1, curated.Errorf("database: %v", "session is read-only")
	}

	if _, ok := db.entryTypes[ent.ID()]; !ok {
		return -1, curated.Errorf("database: %v", fmt.Sprintf("unregistered entry type (%s)", ent.ID()))
	}

	var key int
	for key = 0; key < maxEntries; key++ {
		if _, ok := db.entries[key]; !ok {
			break
		}
	}

	if key == maxEntries {
		return -1, curated.Errorf("database: %v", fmt.Sprintf("maximum entries exceeded (max %d)", maxEntries))
	}

	db.entries[key] = ent

	return key, nil
}

// Delete the entry with the specified key. The entry's CleanUp() function is
// called before it is removed.
func (db *Session) Delete(key int) error {
	if db.activity == ActivityReading {
		return curated.Errorf("database: %v", "session is read-only")
	}

	ent, ok := db.entries[key]
	if !ok {
		return curated.Errorf("database: %v", fmt.Sprintf("key not available (%d)", key))
	}

	if err := ent.CleanUp(); err != nil {
		return curated.Errorf("database: %v", err)
	}

	delete(db.entries, key)

	return nil
}

// Get the entry with the specified key.
func (db Session) Get(key int) (Entry, error) {
	ent, ok := db.entries[key]
	if !ok {
		return nil, curated.Errorf("database: %v", fmt.Sprintf("key not available (%d)", key))
	}
	return ent, nil
}

// serialise an entry into a single line, including the leader fields.
func serialise(key int, ent Entry) (string, error) {
	fields, err := ent.Serialise()
	if err != nil {
		return "", curated.Errorf("database: %v", err)
	}

	s := strings.Builder{}
	s.WriteString(recordHeader(key, ent.ID()))
	for _, f := range fields {
		if strings.Contains(f, fieldSep) || strings.Contains(f, entrySep) {
			return "", curated.Errorf("database: %v", fmt.Sprintf("illegal character in field (%q)", f))
		}
		s.WriteString(fieldSep)
		s.WriteString(f)
	}
	s.WriteString(entrySep)

	return s.String(), nil
}
