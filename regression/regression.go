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


package regression

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/database"
	"github.com/jetsetilly/verihost/logger"
	"github.com/jetsetilly/verihost/paths"
)

const regressionDBFile = "regressionDB"

// Regressor is the generic entry type in the regression database.
type Regressor interface {
	database.Entry

	// perform the regression test for the regression type. the newRegression
	// flag is set when the test is being added to the database, in which case
	// the result of the run is recorded rather than compared.
	//
	// msg is the string that is to be printed during the regression. on
	// failure the returned string describes the reason
	regress(newRegression bool, output io.Writer, msg string) (bool, string, error)
}

func initDBSession(db *database.Session) error {
	return db.RegisterEntryType(digestEntryType, deserialiseDigestEntry)
}

func startSession(activity database.Activity) (*database.Session, error) {
	pth, err := paths.ResourcePath("", regressionDBFile)
	if err != nil {
		return nil, curated.Errorf("regression: %v", err)
	}
	return database.StartSession(pth, activity, initDBSession)
}

// RegressList displays all entries in the database.
func RegressList(output io.Writer) error {
	db, err := startSession(database.ActivityReading)
	if err != nil {
		return curated.Errorf("regression: list: %v", err)
	}
	defer db.EndSession(false)

	return db.List(output)
}

// RegressAdd adds a new regression handler to the database. The regression
// is run once and the results recorded.
func RegressAdd(output io.Writer, reg Regressor) error {
	db, err := startSession(database.ActivityCreating)
	if err != nil {
		return curated.Errorf("regression: add: %v", err)
	}

	ok, _, err := reg.regress(true, output, fmt.Sprintf("adding: %s", reg))
	if !ok || err != nil {
		_ = db.EndSession(false)
		return curated.Errorf("regression: add: %v", err)
	}

	key, err := db.Add(reg)
	if err != nil {
		_ = db.EndSession(false)
		return curated.Errorf("regression: add: %v", err)
	}

	if err := db.EndSession(true); err != nil {
		return curated.Errorf("regression: add: %v", err)
	}

	fmt.Fprintf(output, "\radded: %03d %s\n", key, reg)
	logger.Logf(logger.Allow, "regression", "added %03d", key)

	return nil
}

// RegressDelete removes a test from the regression database. The user is asked
// to confirm by reading a single line from the confirmation reader.
func RegressDelete(output io.Writer, confirmation io.Reader, key string) error {
	v, err := strconv.Atoi(key)
	if err != nil {
		return curated.Errorf("regression: delete: %v", fmt.Sprintf("invalid key (%s)", key))
	}

	db, err := startSession(database.ActivityModifying)
	if err != nil {
		return curated.Errorf("regression: delete: %v", err)
	}

	ent, err := db.Get(v)
	if err != nil {
		_ = db.EndSession(false)
		return curated.Errorf("regression: delete: %v", err)
	}

	fmt.Fprintf(output, "%s\ndelete? (y/n): ", ent)

	confirm := make([]byte, 32)
	n, err := confirmation.Read(confirm)
	if err != nil && err != io.EOF {
		_ = db.EndSession(false)
		return curated.Errorf("regression: delete: %v", err)
	}

	if n == 0 || (confirm[0] != 'y' && confirm[0] != 'Y') {
		return db.EndSession(false)
	}

	if err := db.Delete(v); err != nil {
		_ = db.EndSession(false)
		return curated.Errorf("regression: delete: %v", err)
	}

	if err := db.EndSession(true); err != nil {
		return curated.Errorf("regression: delete: %v", err)
	}

	fmt.Fprintf(output, "deleted test #%03d from regression database\n", v)

	return nil
}

// RegressRun runs all the tests in the regression database, or just those
// tests with the keys in filterKeys. An error is returned if any test fails.
func RegressRun(output io.Writer, verbose bool, filterKeys []string) error {
	keys := make([]int, 0, len(filterKeys))
	for _, k := range filterKeys {
		v, err := strconv.Atoi(k)
		if err != nil {
			return curated.Errorf("regression: run: %v", fmt.Sprintf("invalid key (%s)", k))
		}
		keys = append(keys, v)
	}
	slices.Sort(keys)
	keys = slices.Compact(keys)

	db, err := startSession(database.ActivityReading)
	if err != nil {
		return curated.Errorf("regression: run: %v", err)
	}
	defer db.EndSession(false)

	if db.NumEntries() == 0 {
		fmt.Fprintln(output, "regression database is empty")
		return nil
	}

	var numSucceed, numFail, numError int

	onSelect := func(key int, ent database.Entry) (bool, error) {
		reg, ok := ent.(Regressor)
		if !ok {
			return false, curated.Errorf("regression: run: %v", fmt.Sprintf("entry %03d is not a regression test", key))
		}

		msg := fmt.Sprintf("running: %03d %s", key, reg)
		ok, failm, err := reg.regress(false, output, msg)
		switch {
		case err != nil:
			numError++
			fmt.Fprintf(output, "\rerror: %03d %s\n", key, reg)
			if verbose {
				fmt.Fprintf(output, "  ^^ %v\n", err)
			}
		case !ok:
			numFail++
			fmt.Fprintf(output, "\rfailure: %03d %s\n", key, reg)
			if verbose && failm != "" {
				fmt.Fprintf(output, "  ^^ %s\n", failm)
			}
		default:
			numSucceed++
			fmt.Fprintf(output, "\rsucceed: %03d %s\n", key, reg)
		}

		return true, nil
	}

	if _, err := db.SelectKeys(onSelect, keys...); err != nil {
		return curated.Errorf("regression: run: %v", err)
	}

	fmt.Fprintf(output, "regression tests: %d succeed, %d fail", numSucceed, numFail)
	if numError > 0 {
		fmt.Fprintf(output, ", %d errors", numError)
	}
	fmt.Fprintln(output)

	if numFail > 0 || numError > 0 {
		return curated.Errorf("regression: run: %v", fmt.Sprintf("%d tests did not succeed", numFail+numError))
	}

	return nil
}
