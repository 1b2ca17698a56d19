// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZap(t *testing.T) {
	t.Run("With an unknown level falls back to debug", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(Level(42), buffer)
		require.Equal(t, DebugLevel, logger.LogLevel())

		logger.Debug("test debug")
		entry := decodeEntry(t, buffer)
		require.Equal(t, "test debug", entry["msg"])
		require.Equal(t, DebugLevel.String(), entry["level"])
	})
	t.Run("With level filtering", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(WarningLevel, buffer)
		logger.Info("hidden")
		require.Zero(t, buffer.Len())
		require.False(t, logger.Enabled(InfoLevel))
		require.True(t, logger.Enabled(ErrorLevel))

		logger.Warnf("shown %d", 1)
		entry := decodeEntry(t, buffer)
		require.Equal(t, "shown 1", entry["msg"])
		require.Equal(t, "warn", entry["level"])
	})
	t.Run("With SetLevel applied to derived loggers", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(ErrorLevel, buffer)
		derived := logger.With("address", "+1")

		derived.Info("hidden")
		require.Zero(t, buffer.Len())

		logger.SetLevel(InfoLevel)
		require.Equal(t, InfoLevel, derived.LogLevel())

		derived.Info("shown")
		entry := decodeEntry(t, buffer)
		require.Equal(t, "shown", entry["msg"])
		require.Equal(t, "+1", entry["address"])
	})
	t.Run("With structured fields", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("a", 1, 42, "skipped", "orphan").Info("msg")

		entry := decodeEntry(t, buffer)
		assert.EqualValues(t, 1, entry["a"])
		assert.Equal(t, "orphan", entry["_"])
		assert.Len(t, entry, 6)
	})
	t.Run("With no fields returns the same logger", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.Same(t, logger, logger.With())
		assert.Same(t, logger, logger.With(1, 2))
	})
	t.Run("With Flush on non-file outputs", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		require.NoError(t, logger.Flush())
		require.Len(t, logger.LogOutput(), 1)
		require.NotNil(t, logger.StdLogger())
	})
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarningLevel,
		" warn ":  WarningLevel,
		"error":   ErrorLevel,
		"panic":   PanicLevel,
		"fatal":   FatalLevel,
	}
	for text, expected := range cases {
		level, err := ParseLevel(text)
		require.NoError(t, err)
		require.Equal(t, expected, level)
	}

	level, err := ParseLevel("verbose")
	require.Error(t, err)
	require.Equal(t, InvalidLevel, level)
	require.Equal(t, "invalid", level.String())
}

func TestDiscardLogger(t *testing.T) {
	require.Equal(t, DiscardLogger, DiscardLogger.With("a", 1))
	require.False(t, DiscardLogger.Enabled(InfoLevel))
	require.True(t, DiscardLogger.Enabled(PanicLevel))
	require.NoError(t, DiscardLogger.Flush())
	require.NotNil(t, DiscardLogger.StdLogger())
	require.Panics(t, func() { DiscardLogger.Panicf("boom %d", 1) })
}

func decodeEntry(t *testing.T, buffer *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
	buffer.Reset()
	return entry
}
