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
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dansantee/poster-wall/pkg/utils"
	uuid "github.com/satori/go.uuid"
)

// Identity the proxy presents to the upstream server.
const (
	productName    = "Poster Wall"
	productVersion = "1.0"
)

var clientIdentifier = "poster-wall-" + strings.Split(uuid.NewV4().String(), "-")[0]

// maxEchoedBody bounds how much of an upstream body is kept for diagnostics.
const maxEchoedBody = 1000

// TransportError is a network-level upstream failure (dial, TLS, timeout).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream request error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Code        int
	ContentType string
	Body        []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Code)
}

// FormatError is an upstream response that is not the JSON we expect.
type FormatError struct {
	ContentType string
	Body        string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("upstream did not return JSON. Content-Type: %s", e.ContentType)
}

// Client talks to one upstream Plex server. It is built per request from the
// resolved configuration and holds no state beyond its HTTP client.
type Client struct {
	BaseURL  string
	Token    string
	Insecure bool

	httpClient *http.Client
}

// NewClient builds a client for the given base URL and token. The timeout
// bounds every call; insecure skips upstream TLS verification.
func NewClient(baseURL, token string, insecure bool, timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
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

	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Token:    token,
		Insecure: insecure,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// setIdentityHeaders stamps the Plex client identity on an upstream request.
func setIdentityHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Client-Identifier", clientIdentifier)
	req.Header.Set("X-Plex-Product", productName)
	req.Header.Set("X-Plex-Version", productVersion)
	req.Header.Set("X-Plex-Platform", "Go")
	req.Header.Set("X-Plex-Device", "Proxy")
}

// get performs one upstream JSON request and decodes the MediaContainer envelope.
func (c *Client) get(ctx context.Context, apiPath string, params url.Values) (*MediaContainer, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("X-Plex-Token", c.Token)

	requestURL := fmt.Sprintf("%s%s?%s", c.BaseURL, apiPath, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, utils.PrintErrorAndReturn(err)
	}
	setIdentityHeaders(req)

	utils.DebugLog("-> Upstream GET %s (token %s)", c.BaseURL+apiPath, utils.MaskString(c.Token))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxEchoedBody))
		return nil, &StatusError{
			Code:        resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        body,
		}
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(contentType, "json") {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxEchoedBody))
		return nil, &FormatError{ContentType: contentType, Body: string(body)}
	}

	var envelope mediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &FormatError{ContentType: contentType, Body: err.Error()}
	}

	return &envelope.MediaContainer, nil
}

// SectionItems lists a library section's items of one content type, sorted by
// added-time descending, windowed by the upstream container paging params.
func (c *Client) SectionItems(ctx context.Context, section string, mediaType, start, size int) (*MediaContainer, error) {
	params := url.Values{}
	params.Set("type", strconv.Itoa(mediaType))
	params.Set("sort", "addedAt:desc")
	params.Set("X-Plex-Container-Start", strconv.Itoa(start))
	params.Set("X-Plex-Container-Size", strconv.Itoa(size))

	return c.get(ctx, "/library/sections/"+url.PathEscape(section)+"/all", params)
}

// Sessions lists the currently playing upstream sessions.
func (c *Client) Sessions(ctx context.Context) (*MediaContainer, error) {
	return c.get(ctx, "/status/sessions", nil)
}

// ItemMetadata fetches detailed metadata for one item by rating key.
func (c *Client) ItemMetadata(ctx context.Context, ratingKey string) (*MediaContainer, error) {
	return c.get(ctx, "/library/metadata/"+url.PathEscape(ratingKey), nil)
}
