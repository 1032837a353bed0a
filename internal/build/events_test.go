// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Event decoding tests

package build_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sony-level/pgo-runner/internal/build"
)

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name string
		line string
		want build.Event
	}{
		{
			name: "binary artifact",
			line: `{"reason":"compiler-artifact","package_id":"foo 0.1.0","target":{"name":"foo","kind":["bin"]},"executable":"/t/release/foo","fresh":false}`,
			want: build.ArtifactProduced{PackageID: "foo 0.1.0", TargetName: "foo", Kind: build.ArtifactBinary, Executable: "/t/release/foo"},
		},
		{
			name: "library artifact without executable",
			line: `{"reason":"compiler-artifact","package_id":"dep","target":{"name":"dep","kind":["lib"]},"executable":null}`,
			want: build.ArtifactProduced{PackageID: "dep", TargetName: "dep", Kind: build.ArtifactOther},
		},
		{
			name: "build finished ok",
			line: `{"reason":"build-finished","success":true}`,
			want: build.BuildFinished{Success: true},
		},
		{
			name: "build finished failed",
			line: `{"reason":"build-finished","success":false}`,
			want: build.BuildFinished{Success: false},
		},
		{
			name: "plain text line",
			line: "Running `target/release/foo`",
			want: build.Other{Reason: build.ReasonTextLine, Text: "Running `target/release/foo`"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := build.DecodeEvent([]byte(tt.line))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeEvent_CompilerMessage(t *testing.T) {
	line := `{"reason":"compiler-message","message":{"rendered":"warning: unused variable\n","level":"warning"}}`

	got, err := build.DecodeEvent([]byte(line))
	require.NoError(t, err)

	other, ok := got.(build.Other)
	require.True(t, ok)
	assert.Equal(t, build.ReasonCompilerMessage, other.Reason)
	assert.Equal(t, "warning: unused variable\n", other.Rendered)
	assert.JSONEq(t, line, string(other.Raw))
}

func TestDecodeEvent_UnknownReasonTolerated(t *testing.T) {
	got, err := build.DecodeEvent([]byte(`{"reason":"something-new","payload":[1,2,3]}`))
	require.NoError(t, err)

	other, ok := got.(build.Other)
	require.True(t, ok)
	assert.Equal(t, "something-new", other.Reason)
}

func TestDecodeEvent_ProgramOutputIsText(t *testing.T) {
	for _, line := range []string{
		`{`,
		`{"reason":"compiler-artifact",`,
		`{"a": 1}`,
		`{ not json at all }`,
	} {
		got, err := build.DecodeEvent([]byte(line))
		require.NoError(t, err, line)
		assert.Equal(t, build.Other{Reason: build.ReasonTextLine, Text: line}, got)
	}
}

func TestDecodeEvent_Malformed(t *testing.T) {
	for _, line := range []string{
		`{"reason":"build-finished","success":"yes"}`,
		`{"reason":"compiler-artifact","target":{"name":7}}`,
	} {
		_, err := build.DecodeEvent([]byte(line))
		assert.Error(t, err, line)
	}
}

func TestArtifactKindOf(t *testing.T) {
	assert.Equal(t, build.ArtifactBinary, build.ArtifactKindOf([]string{"bin"}))
	assert.Equal(t, build.ArtifactBenchmark, build.ArtifactKindOf([]string{"bench"}))
	assert.Equal(t, build.ArtifactExample, build.ArtifactKindOf([]string{"example"}))
	assert.Equal(t, build.ArtifactTest, build.ArtifactKindOf([]string{"test"}))
	assert.Equal(t, build.ArtifactBinary, build.ArtifactKindOf([]string{"lib", "bin"}))
	assert.Equal(t, build.ArtifactOther, build.ArtifactKindOf([]string{"proc-macro"}))
	assert.Equal(t, build.ArtifactOther, build.ArtifactKindOf(nil))
}
