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
// Package paths prepares paths to verihost resources, such as the prefs file.
//
// The ResourcePath() function prepends the resource with the base resource
// directory. If a directory named ".verihost" is present in the current
// directory then that is the base. Otherwise the user's config directory, as
// reported by os.UserConfigDir(), is used. On a modern Linux system the
// following:
//
//	p, _ := paths.ResourcePath("", "prefs")
//
// will return:
//
//	/home/user/.config/verihost/prefs
package paths
