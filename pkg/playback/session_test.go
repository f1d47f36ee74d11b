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
	"strings"
	"testing"
	"time"

	"github.com/dansantee/poster-wall/pkg/plex"
)

func fi(v int64) *plex.FlexInt {
	f := plex.FlexInt(v)
	return &f
}

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		name    string
		session plex.Metadata
		want    string
	}{
		{
			name:    "movie uses raw title",
			session: plex.Metadata{Type: "movie", Title: "Blade Runner"},
			want:    "Blade Runner",
		},
		{
			name: "episode folds in show and position",
			session: plex.Metadata{
				Type: "episode", Title: "Pilot",
				GrandparentTitle: "Some Show",
				ParentIndex:      fi(1), Index: fi(3),
			},
			want: "Some Show - S1E3 - Pilot",
		},
		{
			name: "missing season index",
			session: plex.Metadata{
				Type: "episode", Title: "Pilot",
				GrandparentTitle: "Some Show",
				Index:            fi(3),
			},
			want: "Some Show - S?E3 - Pilot",
		},
		{
			name: "missing both indices",
			session: plex.Metadata{
				Type: "episode", Title: "Pilot",
				GrandparentTitle: "Some Show",
			},
			want: "Some Show - S?E? - Pilot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := displayTitle(&tt.session); got != tt.want {
				t.Errorf("displayTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name       string
		viewOffset int64
		duration   int64
		want       float64
	}{
		{
			name:       "quarter done",
			viewOffset: 900000,
			duration:   3600000,
			want:       25,
		},
		{
			name:       "rounded to one decimal",
			viewOffset: 1000,
			duration:   3000,
			want:       33.3,
		},
		{
			name:       "zero duration yields zero",
			viewOffset: 900000,
			duration:   0,
			want:       0,
		},
		{
			name:       "negative duration yields zero",
			viewOffset: 900000,
			duration:   -5,
			want:       0,
		},
		{
			name:       "offset past duration clamps to 100",
			viewOffset: 4000000,
			duration:   3600000,
			want:       100,
		},
		{
			name:       "negative offset clamps to 0",
			viewOffset: -100,
			duration:   3600000,
			want:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := progressPercent(tt.viewOffset, tt.duration)
			if got != tt.want {
				t.Errorf("progressPercent(%d, %d) = %v, want %v", tt.viewOffset, tt.duration, got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("progress %v outside [0,100]", got)
			}
		})
	}
}

func TestArtworkThumbMovie(t *testing.T) {
	lookup := func(ctx context.Context, ratingKey string) (*plex.Metadata, bool) {
		t.Fatal("movie artwork must not trigger a metadata lookup")
		return nil, false
	}

	s := &plex.Metadata{Type: "movie", Thumb: "/movie/thumb"}
	if got := artworkThumb(context.Background(), lookup, s); got != "/movie/thumb" {
		t.Errorf("artworkThumb() = %q, want session thumb", got)
	}
}

func TestArtworkThumbEpisodeCascade(t *testing.T) {
	episode := plex.Metadata{
		Type:            "episode",
		ParentRatingKey: "100",
		Thumb:           "/episode/frame",
		ParentThumb:     "/session/season",
		GrandparentThumb: "/session/show",
	}

	tests := []struct {
		name    string
		session plex.Metadata
		lookup  seasonLookup
		want    string
	}{
		{
			name:    "season thumb wins",
			session: episode,
			lookup: func(ctx context.Context, ratingKey string) (*plex.Metadata, bool) {
				return &plex.Metadata{Thumb: "/season/art", ParentThumb: "/show/art"}, true
			},
			want: "/season/art",
		},
		{
			name:    "show thumb from the same lookup",
			session: episode,
			lookup: func(ctx context.Context, ratingKey string) (*plex.Metadata, bool) {
				return &plex.Metadata{ParentThumb: "/show/art"}, true
			},
			want: "/show/art",
		},
		{
			name:    "failed lookup falls back to embedded season art",
			session: episode,
			lookup: func(ctx context.Context, ratingKey string) (*plex.Metadata, bool) {
				return nil, false
			},
			want: "/session/season",
		},
		{
			name: "failed lookup and no season art falls back to embedded show art",
			session: plex.Metadata{
				Type: "episode", ParentRatingKey: "100",
				Thumb: "/episode/frame", GrandparentThumb: "/session/show",
			},
			lookup: func(ctx context.Context, ratingKey string) (*plex.Metadata, bool) {
				return nil, false
			},
			want: "/session/show",
		},
		{
			name: "episode frame is the last resort",
			session: plex.Metadata{
				Type: "episode", ParentRatingKey: "100", Thumb: "/episode/frame",
			},
			lookup: func(ctx context.Context, ratingKey string) (*plex.Metadata, bool) {
				return nil, false
			},
			want: "/episode/frame",
		},
		{
			name: "no season key behaves like a failed lookup",
			session: plex.Metadata{
				Type: "episode", Thumb: "/episode/frame", ParentThumb: "/session/season",
			},
			lookup: func(ctx context.Context, ratingKey string) (*plex.Metadata, bool) {
				t.Fatal("lookup must not run without a season rating key")
				return nil, false
			},
			want: "/session/season",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.session
			if got := artworkThumb(context.Background(), tt.lookup, &s); got != tt.want {
				t.Errorf("artworkThumb() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	client := plex.NewClient("http://plex.local:32400", "tok", false, time.Second)
	lookup := func(ctx context.Context, ratingKey string) (*plex.Metadata, bool) {
		return &plex.Metadata{Thumb: "/season/art"}, true
	}

	s := &plex.Metadata{
		Type:             "episode",
		Title:            "Pilot",
		GrandparentTitle: "Some Show",
		ParentIndex:      fi(1),
		Index:            fi(3),
		ParentRatingKey:  "100",
		Year:             2020,
		ContentRating:    "TV-MA",
		Thumb:            "/episode/frame",
		Duration:         3600000,
		ViewOffset:       900000,
		Media: []plex.Media{{
			VideoResolution: "1080",
			VideoCodec:      "h264",
			Part: []plex.Part{{
				Stream: []plex.Stream{
					{StreamType: plex.StreamTypeVideo, Codec: "h264"},
					{StreamType: plex.StreamTypeAudio, Codec: "eac3", Channels: 6},
				},
			}},
		}},
	}

	got := resolve(context.Background(), lookup, client, s, "/api/poster")

	if !got.Playing {
		t.Error("Playing = false, want true")
	}
	if got.Title != "Some Show - S1E3 - Pilot" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Year != 2020 || got.Rating != "TV-MA" || got.MediaType != "episode" {
		t.Errorf("identity fields = %d/%q/%q", got.Year, got.Rating, got.MediaType)
	}
	if got.Progress != 25 {
		t.Errorf("Progress = %v, want 25", got.Progress)
	}
	if got.Duration != 3600000 || got.ViewOffset != 900000 {
		t.Errorf("timing fields = %d/%d", got.Duration, got.ViewOffset)
	}
	if got.VideoResolution != "1080" || got.VideoCodec != "h264" {
		t.Errorf("video fields = %q/%q", got.VideoResolution, got.VideoCodec)
	}
	if got.AudioCodec != "EAC3" || got.AudioChannels != "6.1" {
		t.Errorf("audio fields = %q/%q", got.AudioCodec, got.AudioChannels)
	}
	if !strings.HasPrefix(got.Poster, "/api/poster?") || !strings.Contains(got.Poster, "season%2Fart") {
		t.Errorf("Poster = %q, want wall URL for the curated season art", got.Poster)
	}
}
