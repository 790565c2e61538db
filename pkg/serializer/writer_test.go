// Copyright (c) 2025, The craftgraph Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/craftgraph/craftgraph/pkg/stack"
)

type testReport struct {
	Name   string        `json:"name" yaml:"name"`
	Count  int           `json:"count" yaml:"count"`
	Output stack.Stack   `json:"output" yaml:"output"`
	Inputs []stack.Stack `json:"inputs" yaml:"inputs"`
}

type dumpable struct{ lines []string }

func (d dumpable) String() string { return strings.Join(d.lines, "\n") }

func sampleReport() testReport {
	return testReport{
		Name:   "torch",
		Count:  2,
		Output: stack.New("minecraft:torch", 4),
		Inputs: []stack.Stack{stack.Of("minecraft:coal"), stack.Of("minecraft:stick")},
	}
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	if err := writer.Serialize(context.Background(), sampleReport()); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result testReport
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	assert.Equal(t, sampleReport(), result)
	assert.Contains(t, buf.String(), `"output": "4xminecraft:torch"`)
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatYAML, &buf)

	if err := writer.Serialize(context.Background(), sampleReport()); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result testReport
	if err := yaml.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v", err)
	}
	assert.Equal(t, sampleReport(), result)
}

func TestWriter_SerializeTable(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	require.NoError(t, writer.Serialize(context.Background(), sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "torch")
	assert.Contains(t, out, "Output")
	assert.Contains(t, out, "4xminecraft:torch")
	assert.Contains(t, out, "Inputs.[1]")
	assert.NotContains(t, out, "Output.Item", "stacks render as leaves")
}

func TestWriter_SerializeTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), struct{}{}))
	assert.Equal(t, "<empty>\n", buf.String())
}

func TestWriter_SerializeText(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "stringer", in: dumpable{lines: []string{"a", "b"}}, want: "a\nb\n"},
		{name: "text marshaler", in: stack.New("minecraft:stick", 4), want: "4xminecraft:stick\n"},
		{name: "writer to", in: bytes.NewBufferString("line\n"), want: "line\n"},
		{name: "fallback", in: 42, want: "42\n"},
		{name: "empty", in: dumpable{}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewWriter(FormatText, &buf).Serialize(context.Background(), tt.in))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestMarshal_UnsupportedFormat(t *testing.T) {
	_, err := Marshal(Format("xml"), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestFormat_IsUnknown(t *testing.T) {
	for _, f := range SupportedFormats() {
		assert.False(t, Format(f).IsUnknown(), f)
	}
	assert.True(t, Format("xml").IsUnknown())
	assert.True(t, Format("").IsUnknown())
}

func TestFormat_ContentTypeAndExtension(t *testing.T) {
	assert.Equal(t, "application/json", FormatJSON.ContentType())
	assert.Equal(t, "application/yaml", FormatYAML.ContentType())
	assert.Equal(t, "text/plain; charset=utf-8", FormatText.ContentType())
	assert.Equal(t, "json", FormatJSON.Extension())
	assert.Equal(t, "yaml", FormatYAML.Extension())
	assert.Equal(t, "txt", FormatTable.Extension())
}

func TestNewWriter_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(Format("xml"), &buf)
	assert.Equal(t, FormatJSON, writer.format)
}

func TestNewWriter_DefaultsToStdout(t *testing.T) {
	writer := NewWriter(FormatJSON, nil)
	assert.Equal(t, os.Stdout, writer.output)
}

func TestNewFileWriterOrStdout(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		s := NewFileWriterOrStdout(FormatJSON, "  ")
		w, ok := s.(*Writer)
		require.True(t, ok)
		assert.Equal(t, os.Stdout, w.output)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.yaml")
		s := NewFileWriterOrStdout(FormatYAML, path)
		require.NoError(t, s.Serialize(context.Background(), sampleReport()))
		closer, ok := s.(Closer)
		require.True(t, ok)
		require.NoError(t, closer.Close())
		require.NoError(t, closer.Close())

		got, err := FromFile[testReport](path)
		require.NoError(t, err)
		assert.Equal(t, sampleReport(), *got)
	})

	t.Run("invalid path falls back to stdout", func(t *testing.T) {
		s := NewFileWriterOrStdout(FormatJSON, filepath.Join(t.TempDir(), "missing", "out.json"))
		w, ok := s.(*Writer)
		require.True(t, ok)
		assert.Equal(t, os.Stdout, w.output)
	})

	t.Run("configmap", func(t *testing.T) {
		s := NewFileWriterOrStdout(FormatYAML, "cm://games/recipes")
		w, ok := s.(*ConfigMapWriter)
		require.True(t, ok)
		assert.Equal(t, "games", w.namespace)
		assert.Equal(t, "recipes", w.name)
	})

	t.Run("bad configmap uri falls back to stdout", func(t *testing.T) {
		s := NewFileWriterOrStdout(FormatYAML, "cm://games")
		_, ok := s.(*Writer)
		assert.True(t, ok)
	})
}

func TestWriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.txt")
	require.NoError(t, WriteToFile(path, []byte("hello\n")))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(got))

	assert.Error(t, WriteToFile(filepath.Join(t.TempDir(), "no", "such", "file"), nil))
}
