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

// Package playback matches live upstream sessions against the monitored
// kiosk displays and shapes the winning session into the wall's
// now-playing signal.
package playback

import (
	"strings"

	"github.com/dansantee/poster-wall/pkg/plex"
	"github.com/dansantee/poster-wall/pkg/utils"
)

// DefaultSection is the whitelist applied when no sections are configured.
const DefaultSection = "1"

// Whitelist is the canonical set of library section ids a session may come from.
type Whitelist map[string]struct{}

// NormalizeWhitelist builds the canonical section set from config input,
// which historically was either a single scalar or a list. An empty input
// defaults to the primary section.
func NormalizeWhitelist(sections []string) Whitelist {
	w := make(Whitelist, len(sections))
	for _, s := range sections {
		s = strings.TrimSpace(s)
		if s != "" {
			w[s] = struct{}{}
		}
	}
	if len(w) == 0 {
		w[DefaultSection] = struct{}{}
	}
	return w
}

// Contains reports whether the (stringified) section id is whitelisted.
func (w Whitelist) Contains(id string) bool {
	_, ok := w[id]
	return ok
}

// eligibleType reports whether a session type can appear on the wall.
// Music, photos and the rest are skipped.
func eligibleType(t string) bool {
	return t == "movie" || t == "episode"
}

// deviceMatches applies the symmetric substring test between one configured
// device value and a session's player identity: a configured value and the
// live value may each be a superset of the other.
func deviceMatches(device string, player plex.Player) bool {
	device = strings.ToLower(strings.TrimSpace(device))
	if device == "" {
		return false
	}
	address := strings.ToLower(strings.TrimSpace(player.Address))
	title := strings.ToLower(strings.TrimSpace(player.Title))

	if address != "" && (strings.Contains(address, device) || strings.Contains(device, address)) {
		return true
	}
	if title != "" && strings.Contains(title, device) {
		return true
	}
	return false
}

// Match scans the upstream session list in order and returns the first
// session played on a monitored device, from a whitelisted section, with an
// eligible media type. First match wins; upstream order is the tie-break.
func Match(sessions []plex.Metadata, devices []string, whitelist Whitelist) (*plex.Metadata, bool) {
	for i := range sessions {
		s := &sessions[i]

		matched := false
		for _, d := range devices {
			if deviceMatches(d, s.Player) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		if !whitelist.Contains(s.LibrarySectionID.String()) {
			utils.DebugLog("Session %q on matched device skipped: section %s not whitelisted",
				s.Title, s.LibrarySectionID.String())
			continue
		}

		if !eligibleType(s.Type) {
			utils.DebugLog("Session %q on matched device skipped: type %q not eligible", s.Title, s.Type)
			continue
		}

		return s, true
	}
	return nil, false
}
