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

package playback

import (
	"fmt"
	"strings"

	"github.com/dansantee/poster-wall/pkg/plex"
)

// StreamInfo carries the codec and resolution details the wall overlays on
// the now-playing poster.
type StreamInfo struct {
	VideoResolution string
	VideoCodec      string
	AudioCodec      string
	AudioChannels   string
}

// extractStreamInfo pulls resolution and codec fields out of a session's
// primary media descriptor and its nested stream descriptors. The first
// stream flagged as audio wins; when no audio stream is present the
// media-level audio fields are used instead.
func extractStreamInfo(s *plex.Metadata) StreamInfo {
	if len(s.Media) == 0 {
		return StreamInfo{}
	}
	media := s.Media[0]

	info := StreamInfo{
		VideoResolution: media.VideoResolution,
		VideoCodec:      media.VideoCodec,
	}

	for _, part := range media.Part {
		for _, stream := range part.Stream {
			if stream.StreamType.Int() != plex.StreamTypeAudio {
				continue
			}
			info.AudioCodec = strings.ToUpper(stream.Codec)
			info.AudioChannels = channelLabel(stream.Channels.Int())
			return info
		}
	}

	info.AudioCodec = strings.ToUpper(media.AudioCodec)
	info.AudioChannels = channelLabel(media.AudioChannels.Int())
	return info
}

// channelLabel maps a channel count to the wall's surround label. More than
// two channels are shown as "{n}.1", anything else as "{n}.0". This is a
// display heuristic, not true channel-layout decoding.
func channelLabel(count int) string {
	if count <= 0 {
		return ""
	}
	if count > 2 {
		return fmt.Sprintf("%d.1", count)
	}
	return fmt.Sprintf("%d.0", count)
}
