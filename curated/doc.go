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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface and are created with the
// Errorf() function, which takes a pattern and placeholder values in the same
// way as fmt.Errorf().
//
// The pattern is what identifies a curated error. Packages that want callers
// to be able to distinguish a class of error export the pattern as a const
// string and the caller uses Is() or Has() to test for it:
//
//	const SourceError = "download: source: %v"
//
//	err := curated.Errorf(SourceError, "no such file")
//	if curated.Is(err, SourceError) {
//		fmt.Println("skipping job")
//	}
//
// Is() only matches the outermost pattern. Has() searches the chain of
// curated errors passed as placeholder values.
//
//	f := curated.Errorf("sim: %v", err)
//	curated.Is(f, SourceError)  // false
//	curated.Has(f, SourceError) // true
//
// The Error() implementation normalises the chain, so that wrapping an error
// in a pattern with the same leading part does not produce a repeated message.
// For example, wrapping "download: no data" with "download: %v" results in the
// message:
//
//	download: no data
//
// and not:
//
//	download: download: no data
//
// Chains are thought of as parts separated by the sub-string ": ".
//
// Curated errors also implement Unwrap(). If the last placeholder value is an
// error then that is the wrapped error, so the functions in the standard
// errors package continue to work with errors from the os and io packages
// that have been wrapped by a curated error.
package curated
