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


// Package regression facilitates the regression testing of simulation
// models. Each regression test records the video and audio digests of a
// headless run of the synthetic model. Running the test again repeats the run
// and compares the new digests with the recorded ones.
//
// Regression tests are stored in a database in the resource path. The
// RegressAdd(), RegressRun(), RegressList() and RegressDelete() functions
// each open and close their own database session.
package regression
