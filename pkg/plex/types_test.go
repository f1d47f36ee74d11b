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

package plex

import (
	"encoding/json"
	"testing"
)

func TestFlexIntUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{
			name:  "plain number",
			input: `42`,
			want:  42,
		},
		{
			name:  "quoted number",
			input: `"42"`,
			want:  42,
		},
		{
			name:  "null",
			input: `null`,
			want:  0,
		},
		{
			name:  "empty string",
			input: `""`,
			want:  0,
		},
		{
			name:  "garbage string defaults to zero",
			input: `"not-a-number"`,
			want:  0,
		},
		{
			name:  "large timestamp",
			input: `1714089600`,
			want:  1714089600,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fi FlexInt
			if err := json.Unmarshal([]byte(tt.input), &fi); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.input, err)
			}
			if fi.Int64() != tt.want {
				t.Errorf("FlexInt(%s) = %d, want %d", tt.input, fi.Int64(), tt.want)
			}
		})
	}
}

func TestSessionDecoding(t *testing.T) {
	payload := `{
		"MediaContainer": {
			"size": 1,
			"Metadata": [{
				"ratingKey": "101",
				"parentRatingKey": "100",
				"librarySectionID": 4,
				"type": "episode",
				"title": "Pilot",
				"grandparentTitle": "Some Show",
				"parentIndex": "1",
				"index": 3,
				"year": 2020,
				"contentRating": "TV-MA",
				"addedAt": 1714089600,
				"thumb": "/library/metadata/101/thumb/1",
				"parentThumb": "/library/metadata/100/thumb/1",
				"grandparentThumb": "/library/metadata/99/thumb/1",
				"duration": 3600000,
				"viewOffset": 900000,
				"Media": [{
					"videoResolution": "1080",
					"videoCodec": "h264",
					"audioCodec": "aac",
					"audioChannels": 6,
					"Part": [{
						"Stream": [
							{"streamType": 1, "codec": "h264"},
							{"streamType": 2, "codec": "eac3", "channels": 6}
						]
					}]
				}],
				"Player": {"address": "10.0.0.20", "title": "Living Room TV", "state": "playing"}
			}]
		}
	}`

	var envelope mediaResponse
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		t.Fatalf("Unmarshal session payload: %v", err)
	}

	mc := envelope.MediaContainer
	if len(mc.Metadata) != 1 {
		t.Fatalf("Metadata length = %d, want 1", len(mc.Metadata))
	}
	s := mc.Metadata[0]
	if s.LibrarySectionID.String() != "4" {
		t.Errorf("LibrarySectionID = %s, want 4", s.LibrarySectionID.String())
	}
	if s.ParentIndex == nil || s.ParentIndex.Int() != 1 {
		t.Errorf("ParentIndex = %v, want 1 (quoted number)", s.ParentIndex)
	}
	if s.Index == nil || s.Index.Int() != 3 {
		t.Errorf("Index = %v, want 3", s.Index)
	}
	if len(s.Media) != 1 || len(s.Media[0].Part) != 1 || len(s.Media[0].Part[0].Stream) != 2 {
		t.Fatalf("nested media descriptors not decoded: %+v", s.Media)
	}
	if s.Media[0].Part[0].Stream[1].StreamType.Int() != StreamTypeAudio {
		t.Errorf("second stream type = %d, want audio", s.Media[0].Part[0].Stream[1].StreamType.Int())
	}
	if s.Player.Title != "Living Room TV" {
		t.Errorf("Player.Title = %q", s.Player.Title)
	}
}

func TestMissingIndicesDecodeToNil(t *testing.T) {
	var s Metadata
	if err := json.Unmarshal([]byte(`{"type":"episode","title":"x"}`), &s); err != nil {
		t.Fatal(err)
	}
	if s.ParentIndex != nil || s.Index != nil {
		t.Errorf("absent indices should stay nil, got parent=%v index=%v", s.ParentIndex, s.Index)
	}
}
