// Copyright 2025 The Veil Authors
// This file is part of the Veil library.

package stealth

import "testing"

func TestSegmentHex(t *testing.T) {
	segments, ok := segmentHex("0xaabbccdd", 4, 2, 2)
	if !ok {
		t.Fatal("Segmentation should succeed")
	}
	if segments[0] != "aabb" || segments[1] != "cc" || segments[2] != "dd" {
		t.Errorf("Wrong segments: %v", segments)
	}
}

func TestSegmentHexRejects(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		widths []int
	}{
		{"no prefix", "aabbccdd", []int{8}},
		{"too short", "0xaabb", []int{8}},
		{"too long", "0xaabbccdd", []int{4}},
		{"empty", "", []int{2}},
	}
	for _, tc := range cases {
		if _, ok := segmentHex(tc.input, tc.widths...); ok {
			t.Errorf("%s: segmentation should fail", tc.name)
		}
	}
}
