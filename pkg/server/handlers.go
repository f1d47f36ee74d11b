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

package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dansantee/poster-wall/pkg/catalog"
	"github.com/dansantee/poster-wall/pkg/playback"
	"github.com/dansantee/poster-wall/pkg/plex"
	"github.com/dansantee/poster-wall/pkg/store"
	"github.com/dansantee/poster-wall/pkg/utils"
)

// upstreamError maps an upstream client failure onto the response the wall
// client sees: transport problems and malformed bodies become a 502 with the
// cause, non-OK upstream statuses pass through body and code.
func upstreamError(ctx *gin.Context, err error) {
	var transportErr *plex.TransportError
	var statusErr *plex.StatusError
	var formatErr *plex.FormatError

	switch {
	case errors.As(err, &transportErr):
		ctx.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Upstream request error: %v", transportErr.Err)})
	case errors.As(err, &statusErr):
		contentType := statusErr.ContentType
		if contentType == "" {
			contentType = "text/plain"
		}
		ctx.Data(statusErr.Code, contentType, statusErr.Body)
	case errors.As(err, &formatErr):
		ctx.String(http.StatusBadGateway, "Upstream did not return JSON. Content-Type: %s\n\n%s",
			formatErr.ContentType, formatErr.Body)
	default:
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

// getCatalog serves the merged, globally ordered poster feed.
func (c *Config) getCatalog(ctx *gin.Context) {
	start, _ := strconv.Atoi(ctx.DefaultQuery("start", "0"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", ctx.DefaultQuery("limit", "500")))
	start, size = catalog.ClampPaging(start, size)

	doc := c.loadStoreDoc()

	token := c.resolveToken(ctx, doc)
	if token == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "PLEX_TOKEN not configured server-side; client token missing"})
		return
	}

	base, err := c.resolveBase(ctx, doc)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	insecure := c.resolveInsecure(ctx, doc)
	section := c.resolveSection(ctx, doc)

	client := plex.NewClient(base, token, insecure, c.UpstreamTimeout)
	page := catalog.Aggregate(ctx.Request.Context(), client, section, start, size, posterEndpoint)

	ctx.JSON(http.StatusOK, page)
}

// getNowPlaying reports what, if anything, is playing on a monitored display.
func (c *Config) getNowPlaying(ctx *gin.Context) {
	doc := c.loadStoreDoc()

	devices := store.GetStringSlice(doc, "plexDevices")
	if len(devices) == 0 {
		// Nothing to monitor; don't even contact the session endpoint.
		ctx.JSON(http.StatusOK, gin.H{"playing": false, "message": "no monitored devices configured"})
		return
	}

	token := c.resolveToken(ctx, doc)
	if token == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "PLEX_TOKEN not configured server-side; client token missing"})
		return
	}

	base, err := c.resolveBase(ctx, doc)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	insecure := c.resolveInsecure(ctx, doc)
	whitelist := playback.NormalizeWhitelist(store.GetStringSlice(doc, "sectionId"))

	client := plex.NewClient(base, token, insecure, c.UpstreamTimeout)

	container, err := client.Sessions(ctx.Request.Context())
	if err != nil {
		utils.DebugLog("Session listing failed: %v", err)
		upstreamError(ctx, err)
		return
	}

	matched, ok := playback.Match(container.Metadata, devices, whitelist)
	if !ok {
		ctx.JSON(http.StatusOK, gin.H{"playing": false})
		return
	}

	session := playback.Resolve(ctx.Request.Context(), client, matched, posterEndpoint)
	ctx.JSON(http.StatusOK, session)
}
