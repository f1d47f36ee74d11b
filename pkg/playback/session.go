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
	"fmt"
	"math"

	"github.com/dansantee/poster-wall/pkg/plex"
	"github.com/dansantee/poster-wall/pkg/poster"
)

// Session is the wall-facing now-playing payload, built fresh per request
// from the first matching upstream session and discarded after the response.
type Session struct {
	Playing         bool    `json:"playing"`
	Title           string  `json:"title"`
	Year            int     `json:"year,omitempty"`
	Rating          string  `json:"rating,omitempty"`
	Poster          string  `json:"poster,omitempty"`
	Progress        float64 `json:"progress"`
	Duration        int64   `json:"duration"`
	ViewOffset      int64   `json:"viewOffset"`
	VideoResolution string  `json:"videoResolution,omitempty"`
	VideoCodec      string  `json:"videoCodec,omitempty"`
	AudioCodec      string  `json:"audioCodec,omitempty"`
	AudioChannels   string  `json:"audioChannels,omitempty"`
	MediaType       string  `json:"mediaType"`
}

// indexLabel renders a season/episode index, substituting "?" when the
// upstream omitted it.
func indexLabel(idx *plex.FlexInt) string {
	if idx == nil {
		return "?"
	}
	return idx.String()
}

// displayTitle builds the title line the wall shows. Movies use the raw
// title; episodes fold in the show name and season/episode position.
func displayTitle(s *plex.Metadata) string {
	if s.Type != "episode" {
		return s.Title
	}
	return fmt.Sprintf("%s - S%sE%s - %s",
		s.GrandparentTitle, indexLabel(s.ParentIndex), indexLabel(s.Index), s.Title)
}

// progressPercent computes playback progress in [0,100], rounded to one
// decimal. A non-positive duration yields 0.
func progressPercent(viewOffset, duration int64) float64 {
	if duration <= 0 {
		return 0
	}
	p := float64(viewOffset) / float64(duration) * 100
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return math.Round(p*10) / 10
}

// Resolve shapes a matched upstream session into the wall payload: display
// title, progress, stream details and the resolved poster reference.
// posterEndpoint is the client-facing path the poster URL is built under.
func Resolve(ctx context.Context, client *plex.Client, s *plex.Metadata, posterEndpoint string) Session {
	return resolve(ctx, clientSeasonLookup(client), client, s, posterEndpoint)
}

func resolve(ctx context.Context, lookup seasonLookup, client *plex.Client, s *plex.Metadata, posterEndpoint string) Session {
	info := extractStreamInfo(s)

	posterURL := ""
	if thumb := artworkThumb(ctx, lookup, s); thumb != "" {
		ref := poster.Reference{
			Base:     client.BaseURL,
			Thumb:    thumb,
			Token:    client.Token,
			Width:    poster.WallWidth,
			Height:   poster.WallHeight,
			Insecure: client.Insecure,
		}
		posterURL = ref.WallURL(posterEndpoint)
	}

	return Session{
		Playing:         true,
		Title:           displayTitle(s),
		Year:            s.Year.Int(),
		Rating:          s.ContentRating,
		Poster:          posterURL,
		Progress:        progressPercent(s.ViewOffset.Int64(), s.Duration.Int64()),
		Duration:        s.Duration.Int64(),
		ViewOffset:      s.ViewOffset.Int64(),
		VideoResolution: info.VideoResolution,
		VideoCodec:      info.VideoCodec,
		AudioCodec:      info.AudioCodec,
		AudioChannels:   info.AudioChannels,
		MediaType:       s.Type,
	}
}
