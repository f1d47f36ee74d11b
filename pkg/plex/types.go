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
	"strconv"

	"github.com/dansantee/poster-wall/pkg/utils"
)

// FlexInt is a flexible integer type that can unmarshal from JSON string,
// number, or null/empty values. Plex serializes several numeric fields
// (librarySectionID, indices, timestamps) inconsistently across versions.
type FlexInt int64

// UnmarshalJSON implements the json.Unmarshaler interface.
func (fi *FlexInt) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" || string(b) == `""` {
		*fi = 0
		return nil
	}

	var i int64
	if err := json.Unmarshal(b, &i); err == nil {
		*fi = FlexInt(i)
		return nil
	}

	// Plex sometimes quotes numbers; fall back to a string parse
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return utils.PrintErrorAndReturn(err)
	}
	if s == "" {
		*fi = 0
		return nil
	}

	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		utils.DebugLog("Warning: cannot convert %q to integer, defaulting to 0", s)
		*fi = 0
		return nil
	}

	*fi = FlexInt(i)
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (fi FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(fi))
}

// Int returns the int value of the FlexInt
func (fi FlexInt) Int() int {
	return int(fi)
}

// Int64 returns the int64 value of the FlexInt
func (fi FlexInt) Int64() int64 {
	return int64(fi)
}

// String returns the decimal spelling of the value.
func (fi FlexInt) String() string {
	return strconv.FormatInt(int64(fi), 10)
}

// mediaResponse is the top-level envelope every Plex JSON endpoint returns.
type mediaResponse struct {
	MediaContainer MediaContainer `json:"MediaContainer"`
}

// MediaContainer wraps a list of library items, sessions or metadata records.
type MediaContainer struct {
	Size      FlexInt    `json:"size"`
	TotalSize FlexInt    `json:"totalSize"`
	Metadata  []Metadata `json:"Metadata"`
}

// Metadata is a single library item, active session or metadata record.
// Library listings, /status/sessions and /library/metadata all share this
// shape; which fields are populated depends on the endpoint.
type Metadata struct {
	RatingKey            string  `json:"ratingKey"`
	ParentRatingKey      string  `json:"parentRatingKey"`
	GrandparentRatingKey string  `json:"grandparentRatingKey"`
	LibrarySectionID     FlexInt `json:"librarySectionID"`
	Type                 string  `json:"type"`

	Title            string   `json:"title"`
	ParentTitle      string   `json:"parentTitle"`
	GrandparentTitle string   `json:"grandparentTitle"`
	ParentIndex      *FlexInt `json:"parentIndex"`
	Index            *FlexInt `json:"index"`
	Year             FlexInt  `json:"year"`
	ContentRating    string   `json:"contentRating"`
	AddedAt          FlexInt  `json:"addedAt"`

	Thumb            string `json:"thumb"`
	ParentThumb      string `json:"parentThumb"`
	GrandparentThumb string `json:"grandparentThumb"`

	Duration   FlexInt `json:"duration"`
	ViewOffset FlexInt `json:"viewOffset"`

	Media  []Media `json:"Media"`
	Player Player  `json:"Player"`
}

// Player identifies the device an active session is playing on.
type Player struct {
	Address string `json:"address"`
	Title   string `json:"title"`
	Product string `json:"product"`
	State   string `json:"state"`
	Local   bool   `json:"local"`
}

// Media is one playable version of an item.
type Media struct {
	VideoResolution string  `json:"videoResolution"`
	VideoCodec      string  `json:"videoCodec"`
	AudioCodec      string  `json:"audioCodec"`
	AudioChannels   FlexInt `json:"audioChannels"`
	Part            []Part  `json:"Part"`
}

// Part is one file making up a Media version.
type Part struct {
	Stream []Stream `json:"Stream"`
}

// Stream is one embedded stream (video, audio, subtitle) inside a Part.
type Stream struct {
	StreamType FlexInt `json:"streamType"`
	Codec      string  `json:"codec"`
	Channels   FlexInt `json:"channels"`
}

// Stream type codes used by the upstream API.
const (
	StreamTypeVideo    = 1
	StreamTypeAudio    = 2
	StreamTypeSubtitle = 3
)

// Library content type codes used by the upstream API.
const (
	TypeMovie = 1
	TypeShow  = 2
)
