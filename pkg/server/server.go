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
	"fmt"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dansantee/poster-wall/pkg/config"
	"github.com/dansantee/poster-wall/pkg/store"
	"github.com/dansantee/poster-wall/pkg/utils"
)

// posterEndpoint is the client-facing path poster URLs are built under.
const posterEndpoint = "/api/poster"

// Config represent the server configuration
type Config struct {
	*config.ProxyConfig

	store store.Store
}

// NewServer initializes a new server configuration with its config store.
func NewServer(conf *config.ProxyConfig) (*Config, error) {
	serverConfig := &Config{
		ProxyConfig: conf,
	}

	// Store selection: a DB_HOST points at a shared PostgreSQL store,
	// otherwise the kiosk config lives in a local JSON file.
	if os.Getenv("DB_HOST") != "" {
		utils.InfoLog("Bootstrap: DB_HOST set, using PostgreSQL config store")
		pg, err := store.NewPostgresStore()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize config store: %w", err)
		}
		serverConfig.store = pg
	} else {
		utils.InfoLog("Bootstrap: using file config store at %s", conf.ConfigPath)
		serverConfig.store = store.NewFileStore(conf.ConfigPath)
	}

	if conf.AdminKey.String() == "" {
		utils.WarnLog("Bootstrap: no admin key configured - config mutation is UNPROTECTED")
	}
	if conf.PlexURL == "" {
		utils.InfoLog("Bootstrap: no server-wide Plex URL; clients or stored config must supply one")
	}

	return serverConfig, nil
}

// Serve runs the poster wall API until the process exits.
func (c *Config) Serve() error {
	utils.InfoLog("[poster-wall] Server is starting...")

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "PUT", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"X-Plex-Token",
			"X-Plex-Url",
			"X-Allow-Insecure",
			"X-Admin-Key",
		},
	}))

	c.routes(router.Group("/"))

	utils.InfoLog("[poster-wall] Server is ready and listening on :%d", c.HostConfig.Port)
	return router.Run(fmt.Sprintf(":%d", c.HostConfig.Port))
}

func (c *Config) routes(r *gin.RouterGroup) {
	api := r.Group("/api")

	api.GET("/ping", c.ping)

	api.GET("/catalog", c.getCatalog)
	api.GET("/now-playing", c.getNowPlaying)
	api.GET("/poster", c.getPoster)

	api.GET("/config", c.getConfig)
	api.PUT("/config", c.adminKeyAuth(), c.putConfig)
	api.POST("/restart", c.adminKeyAuth(), c.postRestart)
}

// ping is the health endpoint the kiosk polls before first paint.
func (c *Config) ping(ctx *gin.Context) {
	ctx.String(200, "pong")
}
