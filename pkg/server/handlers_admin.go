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
	"encoding/json"
	"io"
	"net/http"
	"os/exec"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dansantee/poster-wall/pkg/utils"
)

// adminKeyAuth gates mutating endpoints behind the configured admin key.
// With no key configured the gate is open.
func (c *Config) adminKeyAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		adminKey := c.AdminKey.String()
		if adminKey == "" {
			ctx.Next()
			return
		}
		key := ctx.GetHeader("X-Admin-Key")
		if key != adminKey {
			utils.DebugLog("Admin auth failed - invalid key: %s", utils.MaskString(key))
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		ctx.Next()
	}
}

// getConfig returns the stored kiosk config document verbatim.
func (c *Config) getConfig(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "application/json", c.loadStoreDoc())
}

// putConfig replaces the stored kiosk config. The body must be a JSON
// object; a stored plexUrl gets its scheme defaulted before saving.
func (c *Config) putConfig(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	// Minimal normalization: default the scheme so kiosks can store a bare host.
	if raw, ok := doc["plexUrl"]; ok {
		var plexURL string
		if err := json.Unmarshal(raw, &plexURL); err == nil && plexURL != "" &&
			!strings.HasPrefix(plexURL, "http://") && !strings.HasPrefix(plexURL, "https://") {
			normalized, _ := json.Marshal("http://" + plexURL)
			doc["plexUrl"] = normalized
		}
	}

	out, err := json.Marshal(doc)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.store.Save(out); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	utils.InfoLog("Kiosk config updated (%d bytes)", len(out))
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// postRestart runs the configured restart command, typically a systemctl or
// docker restart of the display stack.
func (c *Config) postRestart(ctx *gin.Context) {
	if c.RestartCommand == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "no restart command configured"})
		return
	}

	utils.InfoLog("Running restart command: %s", c.RestartCommand)
	cmd := exec.CommandContext(ctx.Request.Context(), "sh", "-c", c.RestartCommand)
	output, err := cmd.CombinedOutput()
	if err != nil {
		utils.ErrorLog("Restart command failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "output": string(output)})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "output": string(output)})
}
