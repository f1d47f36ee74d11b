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
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dansantee/poster-wall/pkg/poster"
	"github.com/dansantee/poster-wall/pkg/utils"
)

// getPoster streams one transcoded artwork image from upstream to the wall.
// The request carries a full poster reference; fields the reference omits
// fall back to the per-request resolution chain.
func (c *Config) getPoster(ctx *gin.Context) {
	ref := poster.Decode(ctx.Request.URL.Query())
	doc := c.loadStoreDoc()

	if ref.Base == "" {
		base, err := c.resolveBase(ctx, doc)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ref.Base = base
	} else {
		ref.Base = ensureScheme(ref.Base)
	}
	if ref.Token == "" {
		ref.Token = c.resolveToken(ctx, doc)
	}
	if ref.Thumb == "" || ref.Token == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing base/thumb/token"})
		return
	}

	insecure := ref.Insecure || c.resolveInsecure(ctx, doc)

	upstreamURL, err := url.Parse(ref.TranscodeURL())
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid poster reference"})
		return
	}

	c.streamPoster(ctx, upstreamURL, insecure)
}

// streamPoster proxies the image bytes from upstream to the client,
// preserving the upstream status and content type and marking the result
// cacheable for a day.
func (c *Config) streamPoster(ctx *gin.Context, oriURL *url.URL, insecure bool) {
	utils.DebugLog("-> Poster request URL: %s", ctx.Request.URL)

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   c.UpstreamTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   c.UpstreamTimeout,
	}

	// Bound to the client context so it cancels if the wall disconnects
	req, err := http.NewRequestWithContext(ctx.Request.Context(), http.MethodGet, oriURL.String(), nil)
	if err != nil {
		utils.ErrorLog("Failed to create poster request: %v", err)
		ctx.AbortWithError(http.StatusInternalServerError, utils.PrintErrorAndReturn(err)) // nolint: errcheck
		return
	}
	req.Header.Set("Accept", "*/*")

	resp, err := client.Do(req)
	if err != nil {
		utils.DebugLog("-> Upstream poster error: %v", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Upstream request error: " + err.Error()})
		return
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	ctx.Header("Content-Type", contentType)
	ctx.Header("Cache-Control", "public, max-age=86400")
	ctx.Status(resp.StatusCode)

	// Stream the response body to the client with flushes
	w := ctx.Writer
	buf := make([]byte, 64*1024)

	for {
		select {
		case <-ctx.Request.Context().Done():
			utils.DebugLog("Client cancelled poster fetch for URL: %s", ctx.Request.URL)
			return
		default:
		}

		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				utils.DebugLog("Client write error: %v", werr)
				return
			}
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
		if rerr != nil {
			if rerr != io.EOF {
				utils.DebugLog("Upstream read error: %v", rerr)
			}
			return
		}
	}
}
