// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package logging_test

import (
	"bytes"
	"testing"

	"github.com/bushyice/rind/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level       string
		expected    zapcore.Level
		expectedErr error
	}{
		{level: "", expected: zapcore.InfoLevel},
		{level: "debug", expected: zapcore.DebugLevel},
		{level: "warn", expected: zapcore.WarnLevel},
		{level: "error", expected: zapcore.ErrorLevel},
		{level: "loud", expectedErr: logging.ErrUnknownLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := logging.ParseLevel(tt.level)
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr == nil {
				assert.Equal(t, tt.expected, level)
			}
		})
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	logger, err := logging.New("warn", &buf)
	require.NoError(t, err)

	logger.Named("reaper").Info("hidden")
	logger.Named("reaper").Warn("spawn failed", zap.String("unit", "a.yaml"))

	output := buf.String()
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "WARN")
	assert.Contains(t, output, "reaper")
	assert.Contains(t, output, `"unit"`)
	assert.Contains(t, output, "a.yaml")
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := logging.New("chatty", &bytes.Buffer{})
	require.ErrorIs(t, err, logging.ErrUnknownLevel)
}
