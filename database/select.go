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

	"github.com/jetsetilly/verihost/curated"
)

// SelectAll entries in the database. onSelect can be nil.
//
// onSelect should return false to stop the select loop. The key of the entry
// is also supplied to the function.
//
// Returns the last entry selected.
func (db Session) SelectAll(onSelect func(key int, ent Entry) (bool, error)) (Entry, error) {
	return db.SelectKeys(onSelect)
}

// SelectKeys matches entries with the specified keys. onSelect can be nil.
// If no keys are supplied then all entries are selected.
//
// onSelect should return false to stop the select loop.
//
// Returns the last entry selected.
func (db Session) SelectKeys(onSelect func(key int, ent Entry) (bool, error), keys ...int) (Entry, error) {
	var entry Entry

	if onSelect == nil {
		onSelect = func(_ int, _ Entry) (bool, error) { return true, nil }
	}

	keyList := keys
	if len(keys) == 0 {
		keyList = db.SortedKeyList()
	}

	for _, key := range keyList {
		ent, ok := db.entries[key]
		if !ok {
			return entry, curated.Errorf("database: %v", fmt.Sprintf("key not available (%d)", key))
		}

		entry = ent

		cont, err := onSelect(key, entry)
		if err != nil {
			return entry, err
		}
		if !cont {
			break
		}
	}

	if entry == nil {
		return nil, curated.Errorf("database: %v", "select empty")
	}

	return entry, nil
}
