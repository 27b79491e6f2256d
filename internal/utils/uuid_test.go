package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator_Generate(t *testing.T) {
	g := NewUUIDGenerator()

	first := g.Generate()
	second := g.Generate()

	parsed, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.NotEqual(t, first, second)
}

func TestRandomFileName(t *testing.T) {
	tests := []struct {
		name     string
		original string
		expected string
	}{
		{"keeps extension", "example.jpg", "abc.jpg"},
		{"keeps extension case", "photo.PNG", "abc.PNG"},
		{"only last extension", "archive.tar.gif", "abc.gif"},
		{"no extension", "image", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RandomFileName("abc", tt.original))
		})
	}
}
