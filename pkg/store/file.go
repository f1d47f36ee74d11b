/*
 * poster-wall is a proxy that reshapes a Plex media server into a kiosk poster wall.
 * Copyright (C) 2025  Dan Santee
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/dansantee/poster-wall/pkg/utils"
)

// FileStore keeps the config document in a JSON file. Load re-reads the file
// on every call so edits made outside the process are picked up immediately.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

var emptyDoc = []byte("{}")

// Load returns the stored document, or an empty one when the file is missing
// or does not parse as JSON.
func (s *FileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			utils.WarnLog("Config store unreadable at %s: %v", s.path, err)
		}
		return emptyDoc, nil
	}
	if !json.Valid(data) {
		utils.WarnLog("Config store at %s holds invalid JSON, treating as empty", s.path)
		return emptyDoc, nil
	}
	return data, nil
}

// Save writes the document back, pretty-printed, creating parent directories
// as needed.
func (s *FileStore) Save(doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, doc, "", "  "); err != nil {
		return utils.PrintErrorAndReturn(err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return utils.PrintErrorAndReturn(err)
		}
	}

	if err := os.WriteFile(s.path, pretty.Bytes(), 0644); err != nil {
		return utils.PrintErrorAndReturn(err)
	}
	utils.DebugLog("Config store saved to %s (%d bytes)", s.path, pretty.Len())
	return nil
}
