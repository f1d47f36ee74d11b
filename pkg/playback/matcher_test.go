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

package playback

import (
	"reflect"
	"sort"
	"testing"

	"github.com/dansantee/poster-wall/pkg/plex"
)

func TestNormalizeWhitelist(t *testing.T) {
	tests := []struct {
		name     string
		sections []string
		want     []string
	}{
		{
			name:     "scalar form",
			sections: []string{"1"},
			want:     []string{"1"},
		},
		{
			name:     "list form",
			sections: []string{"1", "4"},
			want:     []string{"1", "4"},
		},
		{
			name:     "empty defaults to primary section",
			sections: nil,
			want:     []string{"1"},
		},
		{
			name:     "blank entries dropped, then default",
			sections: []string{"", "  "},
			want:     []string{"1"},
		},
		{
			name:     "entries trimmed",
			sections: []string{" 4 "},
			want:     []string{"4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NormalizeWhitelist(tt.sections)
			got := make([]string, 0, len(w))
			for k := range w {
				got = append(got, k)
			}
			sort.Strings(got)
			sort.Strings(tt.want)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeWhitelist(%v) = %v, want %v", tt.sections, got, tt.want)
			}
		})
	}
}

func TestScalarAndListWhitelistBehaveIdentically(t *testing.T) {
	scalar := NormalizeWhitelist([]string{"1"})
	list := NormalizeWhitelist([]string{"1"})
	for _, id := range []string{"1", "2", ""} {
		if scalar.Contains(id) != list.Contains(id) {
			t.Errorf("scalar and list whitelist disagree on %q", id)
		}
	}
}

func TestDeviceMatches(t *testing.T) {
	tests := []struct {
		name   string
		device string
		player plex.Player
		want   bool
	}{
		{
			name:   "device substring of address",
			device: "livingroom",
			player: plex.Player{Address: "livingroom-tv"},
			want:   true,
		},
		{
			name:   "address substring of device",
			device: "livingroom-tv-main",
			player: plex.Player{Address: "livingroom-tv"},
			want:   true,
		},
		{
			name:   "device substring of title",
			device: "tv",
			player: plex.Player{Title: "Living Room TV"},
			want:   true,
		},
		{
			name:   "case insensitive",
			device: "LIVING ROOM",
			player: plex.Player{Title: "living room tv"},
			want:   true,
		},
		{
			name:   "whitespace trimmed",
			device: "  shield  ",
			player: plex.Player{Address: "shield.lan"},
			want:   true,
		},
		{
			name:   "no overlap",
			device: "bedroom",
			player: plex.Player{Address: "livingroom-tv", Title: "Living Room TV"},
			want:   false,
		},
		{
			name:   "empty device never matches",
			device: "",
			player: plex.Player{Address: "livingroom-tv"},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deviceMatches(tt.device, tt.player); got != tt.want {
				t.Errorf("deviceMatches(%q, %+v) = %v, want %v", tt.device, tt.player, got, tt.want)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	wl := NormalizeWhitelist([]string{"1"})

	sessions := []plex.Metadata{
		{Title: "Other Device Movie", Type: "movie", LibrarySectionID: 1,
			Player: plex.Player{Address: "bedroom-tv"}},
		{Title: "Wrong Section Movie", Type: "movie", LibrarySectionID: 9,
			Player: plex.Player{Address: "livingroom-tv"}},
		{Title: "Some Track", Type: "track", LibrarySectionID: 1,
			Player: plex.Player{Address: "livingroom-tv"}},
		{Title: "The Winner", Type: "movie", LibrarySectionID: 1,
			Player: plex.Player{Address: "livingroom-tv"}},
		{Title: "Also Eligible", Type: "movie", LibrarySectionID: 1,
			Player: plex.Player{Address: "livingroom-tv"}},
	}

	got, ok := Match(sessions, []string{"livingroom"}, wl)
	if !ok {
		t.Fatal("Match() found nothing, want The Winner")
	}
	if got.Title != "The Winner" {
		t.Errorf("Match() = %q, want first fully-eligible session (upstream order is the tie-break)", got.Title)
	}
}

func TestMatchWhitelistSkipsMatchedDevice(t *testing.T) {
	// Scenario: the device matches but the section is not whitelisted.
	sessions := []plex.Metadata{
		{Title: "Blocked", Type: "movie", LibrarySectionID: 9,
			Player: plex.Player{Address: "livingroom-tv"}},
	}

	if _, ok := Match(sessions, []string{"livingroom"}, NormalizeWhitelist([]string{"1"})); ok {
		t.Error("Match() accepted a session from a non-whitelisted section")
	}
}

func TestMatchNothingEligible(t *testing.T) {
	sessions := []plex.Metadata{
		{Title: "Music", Type: "track", LibrarySectionID: 1, Player: plex.Player{Address: "livingroom-tv"}},
		{Title: "Photos", Type: "photo", LibrarySectionID: 1, Player: plex.Player{Address: "livingroom-tv"}},
	}

	if _, ok := Match(sessions, []string{"livingroom"}, NormalizeWhitelist(nil)); ok {
		t.Error("Match() accepted an ineligible media type")
	}
}

func TestMatchNoDevices(t *testing.T) {
	sessions := []plex.Metadata{
		{Title: "Movie", Type: "movie", LibrarySectionID: 1, Player: plex.Player{Address: "livingroom-tv"}},
	}

	if _, ok := Match(sessions, nil, NormalizeWhitelist(nil)); ok {
		t.Error("Match() with no configured devices should find nothing")
	}
}
