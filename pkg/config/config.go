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

package config

import (
	"net/url"
	"time"
)

// CredentialString hides its value from accidental logging; use String()
// or QueryEscape() at the point the raw value is really needed.
type CredentialString string

func (s CredentialString) String() string {
	return string(s)
}

// QueryEscape returns the credential escaped for use in a URL query.
func (s CredentialString) QueryEscape() string {
	return url.QueryEscape(string(s))
}

// HostConfiguration contains the host/port the service listens on.
type HostConfiguration struct {
	Hostname string
	Port     int
}

// ProxyConfig is the immutable startup configuration of the poster wall proxy.
// Per-request settings (stored plexUrl, token, devices, whitelist) come from the
// config store instead; values here act as server-wide overrides and defaults.
type ProxyConfig struct {
	HostConfig *HostConfiguration

	// PlexURL is the server-wide upstream base URL. Empty means clients or the
	// stored config must supply one.
	PlexURL string
	// PlexToken is the server-wide upstream auth token, same precedence rules.
	PlexToken CredentialString

	// AllowInsecure skips upstream TLS verification unless a request says otherwise.
	AllowInsecure bool

	// SectionID is the default library section when neither the request nor the
	// stored config names one.
	SectionID string

	// UpstreamTimeout bounds every upstream call. Fixed at startup.
	UpstreamTimeout time.Duration

	// AdminKey gates config mutation and restart. Empty disables the gate.
	AdminKey CredentialString

	// ConfigPath is the JSON file backing the file store.
	ConfigPath string

	// RestartCommand, when set, is run by the admin restart endpoint.
	RestartCommand string
}
