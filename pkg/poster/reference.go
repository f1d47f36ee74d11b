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

// Package poster encodes and decodes the self-describing poster reference the
// wall client carries around: everything the poster proxy endpoint needs to
// fetch one transcoded artwork image from upstream.
package poster

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/dansantee/poster-wall/pkg/utils"
)

// Transcode dimensions for catalog wall posters.
const (
	WallWidth  = 1200
	WallHeight = 1800
)

// Defaults applied when a poster request names no dimensions.
const (
	DefaultWidth  = 600
	DefaultHeight = 900
)

// Reference describes one fetchable poster: upstream base URL, the relative
// thumb path the upstream returned, the auth token and target dimensions.
// It round-trips through a query string and is never persisted.
type Reference struct {
	Base     string
	Thumb    string
	Token    string
	Width    int
	Height   int
	Insecure bool
}

// Encode renders the reference as a query string.
func (r Reference) Encode() string {
	insecure := "0"
	if r.Insecure {
		insecure = "1"
	}
	q := url.Values{}
	q.Set("base", r.Base)
	q.Set("thumb", r.Thumb)
	q.Set("token", r.Token)
	q.Set("w", strconv.Itoa(r.Width))
	q.Set("h", strconv.Itoa(r.Height))
	q.Set("insecure", insecure)
	return q.Encode()
}

// WallURL renders the client-facing poster URL under the given endpoint path.
func (r Reference) WallURL(endpoint string) string {
	return endpoint + "?" + r.Encode()
}

// Decode rebuilds a reference from query values. Missing dimensions fall back
// to the defaults; missing base/thumb/token are left empty for the caller to
// reject.
func Decode(q url.Values) Reference {
	width := DefaultWidth
	if w, err := strconv.Atoi(q.Get("w")); err == nil && w > 0 {
		width = w
	}
	height := DefaultHeight
	if h, err := strconv.Atoi(q.Get("h")); err == nil && h > 0 {
		height = h
	}

	return Reference{
		Base:     q.Get("base"),
		Thumb:    q.Get("thumb"),
		Token:    q.Get("token"),
		Width:    width,
		Height:   height,
		Insecure: utils.TruthyString(q.Get("insecure")),
	}
}

// TranscodeURL renders the upstream photo-transcode URL for this reference.
func (r Reference) TranscodeURL() string {
	return fmt.Sprintf("%s/photo/:/transcode?url=%s&width=%d&height=%d&minSize=1&X-Plex-Token=%s",
		r.Base,
		url.QueryEscape(r.Base+r.Thumb),
		r.Width,
		r.Height,
		url.QueryEscape(r.Token))
}
