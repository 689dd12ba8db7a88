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


// Package database is a very simple way of storing structured and arbitrary
// entries in a text file. Each entry is one line of comma separated fields.
// The first two fields are the key and the entry type. The remaining fields
// are interpreted by the deserialiser registered for that entry type.
//
//	000,digest,32,24,1,20000,both,,9d2a...,4c1f...,
//
// A Session is started with StartSession() and must be ended with
// EndSession(). Changes to the entries are only written to disk when
// EndSession() is called with the commitChanges argument set to true.
//
// Fields cannot contain the field separator (a comma) or a newline.
// Serialise() implementations should check for this.
package database
