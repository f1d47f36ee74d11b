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
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dansantee/poster-wall/pkg/store"
	"github.com/dansantee/poster-wall/pkg/utils"
)

// errNoBaseURL is the configuration error for a missing upstream address.
var errNoBaseURL = errors.New("no Plex URL provided. Set PLEX_URL, save plexUrl in server config, or send X-Plex-Url header")

// ensureScheme defaults a bare host to http://.
func ensureScheme(base string) string {
	if base == "" || strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return base
	}
	return "http://" + base
}

// loadStoreDoc fetches the raw stored config document for this request. The
// store is re-read every time; the proxy never caches kiosk settings.
func (c *Config) loadStoreDoc() []byte {
	doc, err := c.store.Load()
	if err != nil {
		utils.WarnLog("Config store load failed: %v", err)
		return []byte("{}")
	}
	return doc
}

// resolveBase picks the upstream base URL for this request: server-wide
// setting, then the X-Plex-Url header, then the url query param, then the
// stored config. The winner is trimmed and scheme-defaulted.
func (c *Config) resolveBase(ctx *gin.Context, doc []byte) (string, error) {
	base := c.PlexURL
	if base == "" {
		base = ctx.GetHeader("X-Plex-Url")
	}
	if base == "" {
		base = ctx.Query("url")
	}
	if base == "" {
		base = store.GetString(doc, "plexUrl")
	}
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return "", errNoBaseURL
	}
	return ensureScheme(base), nil
}

// resolveToken picks the upstream auth token with the same precedence as the
// base URL: server-wide, header, query, stored config.
func (c *Config) resolveToken(ctx *gin.Context, doc []byte) string {
	if t := c.PlexToken.String(); t != "" {
		return t
	}
	if t := strings.TrimSpace(ctx.GetHeader("X-Plex-Token")); t != "" {
		return t
	}
	if t := strings.TrimSpace(ctx.Query("token")); t != "" {
		return t
	}
	return strings.TrimSpace(store.GetString(doc, "plexToken"))
}

// resolveInsecure decides whether upstream TLS verification is skipped for
// this request. An explicit header/query value wins either way; otherwise the
// stored flag, then the server default.
func (c *Config) resolveInsecure(ctx *gin.Context, doc []byte) bool {
	explicit := ctx.GetHeader("X-Allow-Insecure")
	if explicit == "" {
		explicit = ctx.Query("insecure")
	}
	if utils.TruthyString(explicit) {
		return true
	}
	if utils.FalsyString(explicit) {
		return false
	}
	return store.GetBool(doc, "plexInsecure") || c.AllowInsecure
}

// resolveSection picks the library section for catalog requests: query param,
// then the stored sectionId (first entry of its scalar-or-list form), then
// the server default.
func (c *Config) resolveSection(ctx *gin.Context, doc []byte) string {
	if s := ctx.Query("section"); s != "" {
		return s
	}
	if stored := store.GetStringSlice(doc, "sectionId"); len(stored) > 0 {
		return stored[0]
	}
	return c.SectionID
}
