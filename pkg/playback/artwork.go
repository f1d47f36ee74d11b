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
	"context"

	"github.com/dansantee/poster-wall/pkg/plex"
	"github.com/dansantee/poster-wall/pkg/utils"
)

// seasonLookup fetches season-level metadata for an episode session. The
// fetch is best-effort: any failure, or an empty result, reports ok=false so
// the caller falls through to the next artwork source deterministically.
type seasonLookup func(ctx context.Context, ratingKey string) (*plex.Metadata, bool)

// clientSeasonLookup adapts a plex.Client to the seasonLookup shape.
func clientSeasonLookup(client *plex.Client) seasonLookup {
	return func(ctx context.Context, ratingKey string) (*plex.Metadata, bool) {
		container, err := client.ItemMetadata(ctx, ratingKey)
		if err != nil {
			utils.DebugLog("Season metadata lookup for %s failed: %v", ratingKey, err)
			return nil, false
		}
		if len(container.Metadata) == 0 {
			return nil, false
		}
		return &container.Metadata[0], true
	}
}

// artworkThumb resolves the best upstream thumb path for a matched session.
//
// A movie uses its own thumbnail. An episode prefers curated season art, then
// show art from the same season lookup; if the lookup itself fails, the
// season/show thumb paths already embedded in the session payload; and only
// as a last resort the episode's own thumbnail, which may be a literal video
// frame rather than curated art.
func artworkThumb(ctx context.Context, lookup seasonLookup, s *plex.Metadata) string {
	if s.Type != "episode" {
		return s.Thumb
	}

	if s.ParentRatingKey != "" {
		if season, ok := lookup(ctx, s.ParentRatingKey); ok {
			if season.Thumb != "" {
				return season.Thumb
			}
			// Season object's parent is the show.
			if season.ParentThumb != "" {
				return season.ParentThumb
			}
		} else {
			if s.ParentThumb != "" {
				return s.ParentThumb
			}
			if s.GrandparentThumb != "" {
				return s.GrandparentThumb
			}
		}
	} else {
		// No season key to look up; same fallbacks as a failed lookup.
		if s.ParentThumb != "" {
			return s.ParentThumb
		}
		if s.GrandparentThumb != "" {
			return s.GrandparentThumb
		}
	}

	return s.Thumb
}
