package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  string
	}{
		{"", ""},
		{"  ", ""},
		{"1", defaultProfileAddress},
		{"true", defaultProfileAddress},
		{"localhost:7070", "localhost:7070"},
		{":6061", ":6061"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, profileAddress(tt.value), "value %q", tt.value)
	}
}
