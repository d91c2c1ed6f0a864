package chatmarkup

import (
	"testing"
)

func TestStringWidth(t *testing.T) {
	tests := []struct {
		s        string
		expected int
	}{
		{"Hello", 5},
		{"中文", 4},
		{"Hello中文", 9},
		{"", 0},
		{"한글", 4},
	}

	for _, tt := range tests {
		got := StringWidth(tt.s)
		if got != tt.expected {
			t.Errorf("StringWidth(%q) = %d, want %d", tt.s, got, tt.expected)
		}
	}
}

func TestColumnAt(t *testing.T) {
	s := "ab中文cd"
	tests := []struct {
		off      int
		expected int
	}{
		{-1, 0},
		{0, 0},
		{2, 2},
		{5, 4}, // after 中
		{8, 6}, // after 文
		{10, 8},
		{99, 8},
	}

	for _, tt := range tests {
		got := ColumnAt(s, tt.off)
		if got != tt.expected {
			t.Errorf("ColumnAt(%q, %d) = %d, want %d", s, tt.off, got, tt.expected)
		}
	}
}
