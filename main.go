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

package main

import (
	"github.com/joho/godotenv"

	"github.com/dansantee/poster-wall/cmd"
	"github.com/dansantee/poster-wall/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		utils.DebugLog("No .env file loaded: %v", err)
	}
	defer utils.Close()

	cmd.Execute()
}
