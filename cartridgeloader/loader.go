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
package cartridgeloader

import (
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jetsetilly/verihost/curated"
	"github.com/jetsetilly/verihost/logger"
)

// LoadError is the pattern used for all errors returned by Load().
const LoadError = "cartridgeloader: %v"

const logTag = "cartridgeloader"

// HTTPTimeout is the longest time a load from an HTTP(S) source may take,
// including reading the response body. Loads happen on the stepping thread.
var HTTPTimeout = 10 * time.Second

// Loader specifies the data to be downloaded.
type Loader struct {
	// filename of the data to load. may be a URL
	Filename string

	// expected hash of the loaded data. empty string indicates that the hash
	// is unknown and need not be validated. after a load operation the value
	// will be the hash of the loaded data
	Hash string

	// copy of the loaded data. subsequent calls to Load() will not reload
	// the data
	Data []byte

	// does the Data field consist of sound (PCM) data
	IsSoundData bool

	// data was supplied by NewLoaderFromData() and Load() will not try to
	// open Filename
	embedded bool
}

// NewLoader is the preferred method of initialisation for the Loader type
// when loading from a file or URL.
func NewLoader(filename string) Loader {
	cl := Loader{
		Filename: filename,
	}

	switch strings.ToUpper(filepath.Ext(filename)) {
	case ".WAV", ".MP3":
		cl.IsSoundData = true
	}

	return cl
}

// NewLoaderFromData creates a Loader for data that is already in memory. The
// name is used for logging only.
func NewLoaderFromData(name string, data []byte) Loader {
	return Loader{
		Filename: name,
		Data:     data,
		Hash:     fmt.Sprintf("%x", sha1.Sum(data)),
		embedded: true,
	}
}

// ShortName returns a shortened version of the Loader filename.
func (cl Loader) ShortName() string {
	s := filepath.Base(cl.Filename)
	return strings.TrimSuffix(s, filepath.Ext(cl.Filename))
}

// HasLoaded returns true if Load() has been successfully called.
func (cl Loader) HasLoaded() bool {
	return cl.embedded || len(cl.Data) > 0
}

// Load the data. Loader filenames with a valid scheme will use that method to
// load the data. Currently supported schemes are HTTP(S) and local files.
func (cl *Loader) Load() error {
	if cl.HasLoaded() {
		return nil
	}

	if cl.Filename == "" {
		return curated.Errorf(LoadError, "no filename")
	}

	scheme := "file"

	u, err := url.Parse(cl.Filename)
	if err == nil && len(u.Scheme) > 1 {
		// a single letter scheme is most likely a windows drive letter
		scheme = u.Scheme
	}

	var data []byte

	switch scheme {
	case "http", "https":
		client := &http.Client{Timeout: HTTPTimeout}
		resp, err := client.Get(cl.Filename)
		if err != nil {
			return curated.Errorf(LoadError, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return curated.Errorf(LoadError, fmt.Sprintf("http status (%s)", resp.Status))
		}

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return curated.Errorf(LoadError, err)
		}

	case "file":
		fn := cl.Filename
		if u != nil && u.Scheme == "file" {
			fn = u.Path
		}

		data, err = os.ReadFile(fn)
		if err != nil {
			return curated.Errorf(LoadError, err)
		}

	default:
		return curated.Errorf(LoadError, fmt.Sprintf("unsupported URL scheme (%s)", scheme))
	}

	hash := fmt.Sprintf("%x", sha1.Sum(data))
	if cl.Hash != "" && cl.Hash != hash {
		return curated.Errorf(LoadError, "unexpected hash value")
	}

	if cl.IsSoundData {
		pcm, err := decodeSound(cl.Filename, data)
		if err != nil {
			return curated.Errorf(LoadError, err)
		}
		data = pcm
	}

	cl.Hash = hash
	cl.Data = data

	logger.Logf(logger.Allow, logTag, "loaded %s (%d bytes)", cl.ShortName(), len(cl.Data))

	return nil
}
