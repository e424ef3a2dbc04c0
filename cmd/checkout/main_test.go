package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSingleScore(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"170"}, &out))
	assert.Equal(t, "T20 T20 DB\n", out.String())
}

func TestRunAlternatives(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-n", "4", "60"}, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 4)
	for _, l := range lines {
		assert.Len(t, strings.Fields(l), 2, "60 takes two darts on a double finish")
	}
}

func TestRunNoCheckout(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"169"}, &out))
	assert.Equal(t, "169: no checkout\n", out.String())

	out.Reset()
	require.NoError(t, run([]string{"-out", "straight", "1"}, &out))
	assert.Equal(t, "1: no checkout\n", out.String())
}

func TestRunTable(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-table"}, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, "170  T20 T20 DB", lines[0])
	assert.Equal(t, "  2  D1", lines[len(lines)-1])
	assert.NotContains(t, out.String(), "169  ")
}

func TestRunRejects(t *testing.T) {
	tests := [][]string{
		{},
		{"abc"},
		{"-out", "triple", "40"},
		{"-n", "0", "40"},
		{"40", "60"},
		{"-bogus"},
	}
	for _, args := range tests {
		assert.Error(t, run(args, &bytes.Buffer{}), "args %q", args)
	}
}
