package hashutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint([]byte("package main\n"))
	b := Fingerprint([]byte("package main\n"))
	assert.Equal(t, a, b)
}

func TestFingerprint_DiffersOnContentChange(t *testing.T) {
	a := Fingerprint([]byte("func A() {}"))
	b := Fingerprint([]byte("func B() {}"))
	assert.NotEqual(t, a, b)
}

func TestFingerprint_IsLowercaseHex64(t *testing.T) {
	fp := Fingerprint([]byte("anything"))
	assert.Len(t, fp, 64)
	assert.Equal(t, strings.ToLower(fp), fp)
}

func TestFingerprint_EmptyInput(t *testing.T) {
	fp := Fingerprint(nil)
	assert.Len(t, fp, 64)
}

func TestFingerprintReader_MatchesFingerprint(t *testing.T) {
	content := []byte("line one\nline two\n")

	want := Fingerprint(content)
	got, err := FingerprintReader(strings.NewReader(string(content)))

	require.NoError(t, err)
	assert.Equal(t, want, got)
}
