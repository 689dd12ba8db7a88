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
// Package logger is the central log for the host. Log entries are a tag and
// a detail string. The tag is usually the name of the package or component
// making the entry.
//
// Repeated entries (same tag and detail) are folded into one entry with a
// repeat count rather than filling the log. The central log holds a fixed
// number of entries, older entries are discarded.
//
// Every log request is made with a Permission. Components running inside an
// emulation that may want to be quiet (a second simulation instance used for
// comparison, for example) can pass a Permission that refuses logging. Most
// code simply uses the Allow value.
//
// The log can be echoed to an io.Writer as entries are added, with SetEcho().
package logger
