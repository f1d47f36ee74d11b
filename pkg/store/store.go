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

// Package store holds the server-managed kiosk configuration: a single JSON
// document with keys like plexUrl, plexToken, plexInsecure, sectionId and
// plexDevices. The document is re-read on every request; nothing is cached.
package store

import (
	"github.com/buger/jsonparser"
)

// Store is the boundary to the external key-value configuration store.
type Store interface {
	// Load returns the raw JSON config document. A missing or unreadable
	// store yields an empty document, not an error.
	Load() ([]byte, error)
	// Save replaces the whole document.
	Save(doc []byte) error
}

// GetString reads a string-valued key from a raw config document.
// Numeric values are returned in their literal spelling so ids stored as
// numbers (sectionId: 1) behave like their string form ("1").
func GetString(doc []byte, key string) string {
	value, dataType, _, err := jsonparser.Get(doc, key)
	if err != nil {
		return ""
	}
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return ""
		}
		return s
	case jsonparser.Number:
		return string(value)
	default:
		return ""
	}
}

// GetBool reads a boolean-valued key; absent or non-boolean values are false.
func GetBool(doc []byte, key string) bool {
	v, err := jsonparser.GetBoolean(doc, key)
	if err != nil {
		return false
	}
	return v
}

// GetStringSlice reads a key that may hold either a single scalar or a list
// (the stored sectionId kept both shapes over time) and normalizes it to a
// slice of strings. Empty entries are dropped.
func GetStringSlice(doc []byte, key string) []string {
	value, dataType, _, err := jsonparser.Get(doc, key)
	if err != nil {
		return nil
	}

	var out []string
	appendScalar := func(v []byte, t jsonparser.ValueType) {
		switch t {
		case jsonparser.String:
			if s, err := jsonparser.ParseString(v); err == nil && s != "" {
				out = append(out, s)
			}
		case jsonparser.Number:
			out = append(out, string(v))
		}
	}

	switch dataType {
	case jsonparser.Array:
		jsonparser.ArrayEach(value, func(item []byte, t jsonparser.ValueType, _ int, _ error) { // nolint: errcheck
			appendScalar(item, t)
		})
	case jsonparser.String, jsonparser.Number:
		appendScalar(value, dataType)
	}

	return out
}
