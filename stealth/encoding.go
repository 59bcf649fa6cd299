// Copyright 2025 The Veil Authors
// This file is part of the Veil library.

package stealth

// segmentHex splits the payload of a 0x-prefixed hex string into fixed-width
// segments. It reports false if the string is not 0x-prefixed or the widths
// do not consume the payload exactly.
func segmentHex(s string, widths ...int) ([]string, bool) {
	if len(s) < 2 || s[:2] != "0x" {
		return nil, false
	}
	payload := s[2:]

	total := 0
	for _, w := range widths {
		total += w
	}
	if len(payload) != total {
		return nil, false
	}

	segments := make([]string, 0, len(widths))
	off := 0
	for _, w := range widths {
		segments = append(segments, payload[off:off+w])
		off += w
	}
	return segments, true
}
