// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"bytes"
	"testing"

	"github.com/bushyice/rind/internal/ipc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCtlArgs(t *testing.T) {
	tests := []struct {
		name            string
		args            []string
		expectedRequest ipc.Message
		expectedSocket  string
		expectedErr     error
	}{
		{
			name:            "default list",
			args:            []string{"rind"},
			expectedRequest: ipc.NewRequest(ipc.KindList),
			expectedSocket:  "/tmp/rind.sock",
		},
		{
			name:            "list with socket",
			args:            []string{"rind", "-L", "--socket", "/run/rind.sock"},
			expectedRequest: ipc.NewRequest(ipc.KindList),
			expectedSocket:  "/run/rind.sock",
		},
		{
			name:            "start bare",
			args:            []string{"rind", "-S", "-s", "getty"},
			expectedRequest: ipc.NewMessage(ipc.KindStart, "getty"),
			expectedSocket:  "/tmp/rind.sock",
		},
		{
			name:            "stop scoped",
			args:            []string{"rind", "--stop", "-u", "tty.yaml", "-s", "getty"},
			expectedRequest: ipc.NewMessage(ipc.KindStop, "tty.yaml@getty"),
			expectedSocket:  "/tmp/rind.sock",
		},
		{
			name:            "kill",
			args:            []string{"rind", "-X", "--force", "-s", "getty"},
			expectedRequest: ipc.NewMessage(ipc.KindKill, "getty"),
			expectedSocket:  "/tmp/rind.sock",
		},
		{
			name:            "enable",
			args:            []string{"rind", "--enable", "-u", "tty.yaml"},
			expectedRequest: ipc.NewMessage(ipc.KindEnable, "tty.yaml"),
			expectedSocket:  "/tmp/rind.sock",
		},
		{
			name:            "disable",
			args:            []string{"rind", "--disable", "-u", "tty.yaml"},
			expectedRequest: ipc.NewMessage(ipc.KindDisable, "tty.yaml"),
			expectedSocket:  "/tmp/rind.sock",
		},
		{
			name:            "umount scoped",
			args:            []string{"rind", "-U", "-u", "tty.yaml", "-m", "/dev/pts"},
			expectedRequest: ipc.NewMessage(ipc.KindUmount, "tty.yaml@/dev/pts"),
			expectedSocket:  "/tmp/rind.sock",
		},
		{
			name:            "umount bare",
			args:            []string{"rind", "--umount", "--mount", "/dev/pts"},
			expectedRequest: ipc.NewMessage(ipc.KindUmount, "/dev/pts"),
			expectedSocket:  "/tmp/rind.sock",
		},
		{
			name:        "help",
			args:        []string{"rind", "--help"},
			expectedErr: ErrHelp,
		},
		{
			name:        "conflicting",
			args:        []string{"rind", "-S", "-X", "-s", "getty"},
			expectedErr: ErrConflictingActions,
		},
		{
			name:        "force without stop",
			args:        []string{"rind", "-S", "--force", "-s", "getty"},
			expectedErr: ErrConflictingActions,
		},
		{
			name:        "start without service",
			args:        []string{"rind", "-S"},
			expectedErr: ErrMissingArg,
		},
		{
			name:        "enable without unit",
			args:        []string{"rind", "--enable"},
			expectedErr: ErrMissingArg,
		},
		{
			name:        "umount without mount",
			args:        []string{"rind", "-U"},
			expectedErr: ErrMissingArg,
		},
		{
			name:        "positional",
			args:        []string{"rind", "getty"},
			expectedErr: ErrUnexpectedArgs,
		},
		{
			name:        "unknown flag",
			args:        []string{"rind", "--reboot"},
			expectedErr: &ParseArgsError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				flags  ctlFlags
				output bytes.Buffer
			)

			err := parseArgs(tt.args, &flags, &output)
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr != nil {
				assert.NotEmpty(t, output.String())
				return
			}

			assert.Equal(t, tt.expectedRequest, flags.request())
			assert.Equal(t, tt.expectedSocket, flags.Socket)
		})
	}
}

func TestParseInitArgs(t *testing.T) {
	var flags initFlags

	require.NoError(t, parseArgs([]string{"/sbin/rind-init"}, &flags, &bytes.Buffer{}))
	assert.Equal(t, "/etc/rind.yaml", flags.configPath())

	flags = initFlags{}

	args := []string{"rind-init", "-c", "/run/rind.yaml", "--no-pid-one-check"}
	require.NoError(t, parseArgs(args, &flags, &bytes.Buffer{}))
	assert.Equal(t, "/run/rind.yaml", flags.configPath())
	assert.True(t, flags.NoPidOneCheck)
}

func TestHandleParseArgsError(t *testing.T) {
	assert.Equal(t, 0, handleParseArgsError(ErrHelp))
	assert.Equal(t, -1, handleParseArgsError(&ParseArgsError{msg: "parse flags"}))
}
