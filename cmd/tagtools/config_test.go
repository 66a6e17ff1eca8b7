package main

import (
	"flag"
	"testing"

	"github.com/dasnellings/tagTools/trim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseEngine(t *testing.T, args ...string) (trim.Config, error) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	e := newEngineFlags(fs)
	require.NoError(t, fs.Parse(args))
	return e.config()
}

func TestEngineFlagDefaults(t *testing.T) {
	cfg, err := parseEngine(t)
	require.NoError(t, err)
	assert.Equal(t, trim.DefaultConfig(), cfg)
}

func TestEngineFlags(t *testing.T) {
	cfg, err := parseEngine(t, "-bcLen", "8,4", "-useBc", "1,2", "-seq2", "acgtacgt, ggccggcc", "-mm", "2", "-dropEmpty")
	require.NoError(t, err)
	assert.Equal(t, [2]int{8, 4}, cfg.BarcodeLen)
	assert.Equal(t, [2]bool{true, true}, cfg.UseBarcode)
	assert.Equal(t, []string{"ACGTACGT", "GGCCGGCC"}, cfg.Sequences[1])
	assert.Equal(t, 2, cfg.MaxMismatch)
	assert.True(t, cfg.DropEmpty)

	cfg, err = parseEngine(t, "-useBc", "")
	require.NoError(t, err)
	assert.Equal(t, [2]bool{false, false}, cfg.UseBarcode)
}

func TestEngineFlagErrors(t *testing.T) {
	_, err := parseEngine(t, "-bcLen", "12")
	assert.Error(t, err)
	_, err = parseEngine(t, "-useBc", "3")
	assert.Error(t, err)
	_, err = parseEngine(t, "-seq1", "")
	assert.Error(t, err)
	_, err = parseEngine(t, "-identity", "2")
	assert.Error(t, err)
}
