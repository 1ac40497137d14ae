// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/stacklok/toolhive-core/env/mocks"
)

// TestUnstructuredLogsCheck tests the unstructuredLogs function
func TestUnstructuredLogsCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		envValue string
		expected bool
	}{
		{"Default Case", "", true},
		{"Explicitly True", "true", true},
		{"Explicitly False", "false", false},
		{"Invalid Value", "not-a-bool", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)

			mockEnv := mocks.NewMockReader(ctrl)
			mockEnv.EXPECT().Getenv("UNSTRUCTURED_LOGS").Return(tt.envValue)

			assert.Equal(t, tt.expected, unstructuredLogsWithEnv(mockEnv))
		})
	}
}

// observeForTest swaps the singleton for an in-memory observer and restores it afterwards.
func observeForTest(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := singleton.Load()
	singleton.Store(zap.New(core).Sugar())
	t.Cleanup(func() { singleton.Store(prev) })
	return logs
}

func TestLogLevels(t *testing.T) { //nolint:paralleltest // mutates singleton
	tests := []struct {
		name    string
		logFn   func()
		level   zapcore.Level
		message string
	}{
		{"Debug", func() { Debug("debug msg") }, zapcore.DebugLevel, "debug msg"},
		{"Debugf", func() { Debugf("debug %s", "formatted") }, zapcore.DebugLevel, "debug formatted"},
		{"Debugw", func() { Debugw("debug kv", "key", "val") }, zapcore.DebugLevel, "debug kv"},
		{"Info", func() { Info("info msg") }, zapcore.InfoLevel, "info msg"},
		{"Infof", func() { Infof("info %s", "formatted") }, zapcore.InfoLevel, "info formatted"},
		{"Infow", func() { Infow("info kv", "key", "val") }, zapcore.InfoLevel, "info kv"},
		{"Warn", func() { Warn("warn msg") }, zapcore.WarnLevel, "warn msg"},
		{"Warnf", func() { Warnf("warn %s", "formatted") }, zapcore.WarnLevel, "warn formatted"},
		{"Warnw", func() { Warnw("warn kv", "key", "val") }, zapcore.WarnLevel, "warn kv"},
		{"Error", func() { Error("error msg") }, zapcore.ErrorLevel, "error msg"},
		{"Errorf", func() { Errorf("error %s", "formatted") }, zapcore.ErrorLevel, "error formatted"},
		{"Errorw", func() { Errorw("error kv", "key", "val") }, zapcore.ErrorLevel, "error kv"},
	}

	for _, tc := range tests { //nolint:paralleltest // mutates singleton
		t.Run(tc.name, func(t *testing.T) {
			logs := observeForTest(t)

			tc.logFn()

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tc.level, entries[0].Level)
			assert.Equal(t, tc.message, entries[0].Message)
		})
	}
}

func TestKeyValuePairsAreFields(t *testing.T) { //nolint:paralleltest // mutates singleton
	logs := observeForTest(t)

	Infow("tool call finished", "tool", "query_hosts", "status", 200)

	entries := logs.FilterField(zap.String("tool", "query_hosts")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(200), entries[0].ContextMap()["status"])
}

func TestInitializeWithEnv(t *testing.T) { //nolint:paralleltest // mutates singleton
	tests := []struct {
		name            string
		unstructuredEnv string
	}{
		{"Default (unstructured)", ""},
		{"Explicit unstructured", "true"},
		{"Structured JSON", "false"},
	}

	for _, tc := range tests { //nolint:paralleltest // mutates singleton
		t.Run(tc.name, func(t *testing.T) {
			prev := singleton.Load()
			t.Cleanup(func() { singleton.Store(prev) })

			ctrl := gomock.NewController(t)
			mockEnv := mocks.NewMockReader(ctrl)
			mockEnv.EXPECT().Getenv("UNSTRUCTURED_LOGS").Return(tc.unstructuredEnv)

			InitializeWithEnv(mockEnv)

			got := Get()
			require.NotNil(t, got)
			assert.NotSame(t, prev, got)
			got.Info("test after initialize")
		})
	}
}
