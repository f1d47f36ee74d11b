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

// Package catalog merges the upstream library's content types into one
// consistently ordered, paged poster feed.
package catalog

import (
	"context"
	"sort"

	"github.com/dansantee/poster-wall/pkg/plex"
	"github.com/dansantee/poster-wall/pkg/poster"
	"github.com/dansantee/poster-wall/pkg/utils"
)

// fullLibrarySize is the upstream container size used to pull a whole content
// type in one call; libraries past this size get truncated, not broken.
const fullLibrarySize = 5000

// MaxPageSize caps the client-controlled page size.
const MaxPageSize = 1000

// Item is one catalog entry the wall can render. Every item carries a poster;
// entries without upstream artwork are never emitted.
type Item struct {
	Title     string `json:"title"`
	Year      int    `json:"year,omitempty"`
	AddedAt   int64  `json:"addedAt"`
	MediaType string `json:"mediaType"`
	Poster    string `json:"poster"`
}

// Page is one window of the merged catalog.
type Page struct {
	Start     int    `json:"start"`
	Size      int    `json:"size"`
	Returned  int    `json:"returned"`
	TotalSize int    `json:"totalSize"`
	Items     []Item `json:"items"`
}

// contentTypes lists the library content types the wall shows, in fetch order.
var contentTypes = []struct {
	code int
	name string
}{
	{plex.TypeMovie, "movie"},
	{plex.TypeShow, "show"},
}

// ClampPaging normalizes client paging input: start floored at 0, size
// clamped into [1, MaxPageSize].
func ClampPaging(start, size int) (int, int) {
	if start < 0 {
		start = 0
	}
	if size < 1 {
		size = 1
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return start, size
}

// Aggregate fetches every content type from the given section, merges and
// re-sorts the results by added-time descending, and returns the requested
// window. A single content type's failure is tolerated: its items are simply
// absent from the merge. posterEndpoint is the client-facing path poster URLs
// are built under.
func Aggregate(ctx context.Context, client *plex.Client, section string, start, size int, posterEndpoint string) Page {
	start, size = ClampPaging(start, size)

	var merged []plex.Metadata
	for _, ct := range contentTypes {
		container, err := client.SectionItems(ctx, section, ct.code, 0, fullLibrarySize)
		if err != nil {
			// One type's outage must not fail the whole aggregation.
			utils.WarnLog("Catalog fetch for type %s (section %s) failed: %v", ct.name, section, err)
			continue
		}
		merged = append(merged, container.Metadata...)
	}

	// Upstream per-type ordering cannot be trusted to interleave; re-sort the
	// combined set. Stable so equal timestamps keep upstream order.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].AddedAt > merged[j].AddedAt
	})

	// totalSize counts the merged set before the thumbnail filter below; the
	// wall client relies on this for its paging math.
	totalSize := len(merged)

	if start > len(merged) {
		start = len(merged)
	}
	end := start + size
	if end > len(merged) {
		end = len(merged)
	}
	window := merged[start:end]

	items := make([]Item, 0, len(window))
	for _, m := range window {
		if m.Thumb == "" {
			continue
		}
		ref := poster.Reference{
			Base:     client.BaseURL,
			Thumb:    m.Thumb,
			Token:    client.Token,
			Width:    poster.WallWidth,
			Height:   poster.WallHeight,
			Insecure: client.Insecure,
		}
		items = append(items, Item{
			Title:     m.Title,
			Year:      m.Year.Int(),
			AddedAt:   m.AddedAt.Int64(),
			MediaType: m.Type,
			Poster:    ref.WallURL(posterEndpoint),
		})
	}

	return Page{
		Start:     start,
		Size:      size,
		Returned:  len(items),
		TotalSize: totalSize,
		Items:     items,
	}
}
