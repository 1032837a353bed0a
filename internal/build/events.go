// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Typed view of cargo's JSON message stream

package build

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Message reasons emitted by cargo with --message-format=json
const (
	ReasonCompilerArtifact   = "compiler-artifact"
	ReasonBuildFinished      = "build-finished"
	ReasonCompilerMessage    = "compiler-message"
	ReasonBuildScriptExecute = "build-script-executed"
	// ReasonTextLine marks output lines that are not JSON records
	ReasonTextLine = "text-line"
)

// ArtifactKind is the operator-facing name of what a target produced
type ArtifactKind string

const (
	ArtifactBinary    ArtifactKind = "binary"
	ArtifactBenchmark ArtifactKind = "benchmark"
	ArtifactExample   ArtifactKind = "example"
	ArtifactTest      ArtifactKind = "test"
	ArtifactOther     ArtifactKind = "artifact"
)

// ArtifactKindOf maps cargo target kinds to an ArtifactKind. The first
// recognised kind wins.
func ArtifactKindOf(targetKinds []string) ArtifactKind {
	for _, kind := range targetKinds {
		switch kind {
		case "bin":
			return ArtifactBinary
		case "bench":
			return ArtifactBenchmark
		case "example":
			return ArtifactExample
		case "test":
			return ArtifactTest
		}
	}
	return ArtifactOther
}

// Event is one record of the build event stream. The set of implementations
// is closed: ArtifactProduced, BuildFinished and Other.
type Event interface {
	isEvent()
}

// ArtifactProduced reports that a target finished compiling
type ArtifactProduced struct {
	PackageID  string
	TargetName string
	Kind       ArtifactKind
	Executable string // empty when the artifact is not executable
}

// BuildFinished is the last record cargo emits for a build
type BuildFinished struct {
	Success bool
}

// Other is any record not relevant to instrumentation
type Other struct {
	Reason   string
	Rendered string // rendered diagnostic for compiler messages
	Text     string // raw line for non-JSON output
	Raw      json.RawMessage
}

func (ArtifactProduced) isEvent() {}
func (BuildFinished) isEvent()    {}
func (Other) isEvent()            {}

type envelope struct {
	Reason string `json:"reason"`
}

type artifactRecord struct {
	PackageID string `json:"package_id"`
	Target    struct {
		Name string   `json:"name"`
		Kind []string `json:"kind"`
	} `json:"target"`
	Executable *string `json:"executable"`
}

type buildFinishedRecord struct {
	Success bool `json:"success"`
}

type compilerMessageRecord struct {
	Message struct {
		Rendered string `json:"rendered"`
	} `json:"message"`
}

// DecodeEvent decodes one line of cargo output. Anything that is not a JSON
// object carrying a reason is program output and becomes an Other text line.
// A record with a known reason but a malformed payload is an error.
func DecodeEvent(line []byte) (Event, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return textLine(line), nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil || env.Reason == "" {
		return textLine(line), nil
	}

	switch env.Reason {
	case ReasonCompilerArtifact:
		var rec artifactRecord
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return nil, fmt.Errorf("invalid %s message %s: %w", env.Reason, truncate(trimmed, 120), err)
		}
		ev := ArtifactProduced{
			PackageID:  rec.PackageID,
			TargetName: rec.Target.Name,
			Kind:       ArtifactKindOf(rec.Target.Kind),
		}
		if rec.Executable != nil {
			ev.Executable = *rec.Executable
		}
		return ev, nil

	case ReasonBuildFinished:
		var rec buildFinishedRecord
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return nil, fmt.Errorf("invalid %s message %s: %w", env.Reason, truncate(trimmed, 120), err)
		}
		return BuildFinished{Success: rec.Success}, nil

	case ReasonCompilerMessage:
		var rec compilerMessageRecord
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return nil, fmt.Errorf("invalid %s message %s: %w", env.Reason, truncate(trimmed, 120), err)
		}
		return Other{Reason: env.Reason, Rendered: rec.Message.Rendered, Raw: cloneRaw(trimmed)}, nil

	default:
		return Other{Reason: env.Reason, Raw: cloneRaw(trimmed)}, nil
	}
}

func textLine(line []byte) Other {
	return Other{Reason: ReasonTextLine, Text: string(line)}
}

func truncate(b []byte, limit int) string {
	if len(b) <= limit {
		return string(b)
	}
	return string(b[:limit]) + "..."
}

// cloneRaw copies b so the event outlives the reader's buffer
func cloneRaw(b []byte) json.RawMessage {
	return append(json.RawMessage(nil), b...)
}
