// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package daemon_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/bushyice/rind/internal/config"
	"github.com/bushyice/rind/internal/daemon"
	"github.com/bushyice/rind/internal/ipc"
	"github.com/bushyice/rind/internal/mount"
	"github.com/bushyice/rind/internal/name"
	"github.com/bushyice/rind/internal/service"
	"github.com/bushyice/rind/internal/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	waitFor = 5 * time.Second
	tick    = 10 * time.Millisecond
)

const unitA = `
service:
  - name: oneshot
    exec: /bin/sh
    args: ["-c", "exit 0"]
mount:
  - target: /proc
    fstype: proc
    flags: [MS_NOSUID]
`

const unitB = `
service:
  - name: sleeper
    exec: /bin/sleep
    args: ["30"]
mount:
  - target: /never
    fstype: tmpfs
`

type fakeMounts struct {
	mu       sync.Mutex
	targets  []string
	unmounts []string
}

func (f *fakeMounts) syscalls() mount.Syscalls {
	return mount.Syscalls{
		Mount: func(_, target, _ string, _ uintptr, _ string) error {
			f.mu.Lock()
			defer f.mu.Unlock()

			f.targets = append(f.targets, target)

			return nil
		},
		Unmount: func(target string, _ int) error {
			f.mu.Lock()
			defer f.mu.Unlock()

			f.targets = slices.DeleteFunc(f.targets, func(s string) bool {
				return s == target
			})
			f.unmounts = append(f.unmounts, target)

			return nil
		},
		Mounted: func(target string) (bool, error) {
			f.mu.Lock()
			defer f.mu.Unlock()

			return slices.Contains(f.targets, target), nil
		},
	}
}

func (f *fakeMounts) mounted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.targets)
}

func (f *fakeMounts) unmounted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.unmounts)
}

type fixture struct {
	daemon *daemon.Daemon
	mounts *fakeMounts
	dir    string
	socket string

	finished chan struct{}
	runErr   error
}

func writeUnits(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for fileName, content := range files {
		err := os.WriteFile(filepath.Join(dir, fileName), []byte(content), 0o600)
		require.NoError(t, err)
	}
}

func newFixture(t *testing.T, watch bool) *fixture {
	t.Helper()

	dir := t.TempDir()
	writeUnits(t, dir, map[string]string{
		"a.yaml":         unitA,
		"b.yaml":         unitB,
		unit.EnabledFile: "a.yaml\n",
	})

	cfg := config.Default()
	cfg.Services.Path = dir
	cfg.Services.Watch = watch
	cfg.Control.Socket = filepath.Join(t.TempDir(), "rind.sock")
	cfg.Reaper.Interval = tick

	mounts := &fakeMounts{}

	return &fixture{
		daemon: daemon.New(cfg, zaptest.NewLogger(t),
			daemon.WithMountSyscalls(mounts.syscalls()),
			daemon.WithStdio(service.Stdio{}),
		),
		mounts: mounts,
		dir:    dir,
		socket: cfg.Control.Socket,
	}
}

// run boots the daemon and runs it until the test is done.
func (f *fixture) run(t *testing.T) {
	t.Helper()

	f.daemon.Boot()
	f.serve(t)
}

// serve runs the booted daemon until the test is done.
func (f *fixture) serve(t *testing.T) {
	t.Helper()

	require.NoError(t, f.daemon.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	f.finished = make(chan struct{})

	go func() {
		defer close(f.finished)
		f.runErr = f.daemon.Run(ctx)
	}()

	t.Cleanup(func() {
		// Leave no running children behind.
		f.daemon.Registry().Write(func(units *unit.Units) {
			for _, svc := range units.Services() {
				if svc.Process() != nil {
					_ = svc.Process().Kill()
				}
			}
		})

		cancel()
		<-f.finished
		assert.NoError(t, f.runErr)
	})
}

func (f *fixture) returned() bool {
	select {
	case <-f.finished:
		return true
	default:
		return false
	}
}

func (f *fixture) state(t *testing.T, unitName, serviceName string) unit.State {
	t.Helper()

	var (
		state unit.State
		found bool
	)

	f.daemon.Registry().Read(func(units *unit.Units) {
		var svc *unit.Service

		svc, found = units.Service(name.New(unitName), serviceName)
		if found {
			state = svc.State()
		}
	})
	require.True(t, found, "service %s@%s", unitName, serviceName)

	return state
}

func (f *fixture) request(t *testing.T, kind ipc.Kind, payload string) ipc.Message {
	t.Helper()

	reply, err := ipc.Send(f.socket, ipc.NewMessage(kind, payload))
	require.NoError(t, err)

	return reply
}

func snapshotUnits(t *testing.T, reply ipc.Message) *unit.Units {
	t.Helper()

	require.NoError(t, reply.Err())

	snapshot, err := reply.Snapshot()
	require.NoError(t, err)

	units, err := snapshot.Registry()
	require.NoError(t, err)

	return units
}

func TestDaemon_Boot(t *testing.T) {
	f := newFixture(t, false)
	f.run(t)

	assert.Equal(t, []string{"/proc"}, f.mounts.mounted())

	assert.Eventually(t, func() bool {
		return f.state(t, "a.yaml", "oneshot") == unit.Exited(0)
	}, waitFor, tick)

	assert.Equal(t, unit.Inactive(), f.state(t, "b.yaml", "sleeper"))

	reply, err := ipc.Send(f.socket, ipc.NewRequest(ipc.KindList))
	require.NoError(t, err)
	assert.Equal(t, ipc.KindList, reply.Kind)

	units := snapshotUnits(t, reply)
	assert.Equal(t, 2, units.Len())
	assert.True(t, units.IsEnabled(name.New("a.yaml")))
	assert.False(t, units.IsEnabled(name.New("b.yaml")))

	a, _ := units.Unit(name.New("a.yaml"))
	assert.Len(t, a.Services, 1)
	assert.Len(t, a.Mounts, 1)
}

func TestDaemon_Control(t *testing.T) {
	f := newFixture(t, false)
	f.run(t)

	reply := f.request(t, ipc.KindStart, "b.yaml@sleeper")
	assert.Equal(t, ipc.KindStart, reply.Kind)

	svc, found := snapshotUnits(t, reply).Service(name.New("b.yaml"), "sleeper")
	require.True(t, found)
	assert.Equal(t, unit.Active(), svc.State())

	reply = f.request(t, ipc.KindStart, "sleeper")
	require.ErrorIs(t, reply.Err(), &ipc.RemoteError{})
	assert.Contains(t, reply.PayloadString(), service.ErrAlreadyActive.Error())

	reply = f.request(t, ipc.KindStop, "sleeper")
	require.NoError(t, reply.Err())
	assert.Equal(t, unit.Inactive(), f.state(t, "b.yaml", "sleeper"))

	reply = f.request(t, ipc.KindStart, "b.yaml@sleeper")
	require.NoError(t, reply.Err())
	assert.Equal(t, unit.Active(), f.state(t, "b.yaml", "sleeper"))

	reply = f.request(t, ipc.KindKill, "b.yaml@sleeper")
	require.NoError(t, reply.Err())
	assert.Equal(t, unit.Inactive(), f.state(t, "b.yaml", "sleeper"))
}

func TestDaemon_Control_Errors(t *testing.T) {
	f := newFixture(t, false)
	f.run(t)

	tests := []struct {
		name     string
		request  ipc.Message
		contains string
	}{
		{
			name:     "missing service",
			request:  ipc.NewMessage(ipc.KindStart, "ghost"),
			contains: unit.ErrMemberNotFound.Error(),
		},
		{
			name:     "wrong unit",
			request:  ipc.NewMessage(ipc.KindStop, "a.yaml@sleeper"),
			contains: unit.ErrMemberNotFound.Error(),
		},
		{
			name:     "no payload",
			request:  ipc.NewRequest(ipc.KindKill),
			contains: ipc.ErrMissingPayload.Error(),
		},
		{
			name:     "enable missing unit",
			request:  ipc.NewMessage(ipc.KindEnable, "ghost.yaml"),
			contains: unit.ErrUnitNotFound.Error(),
		},
		{
			name:     "disable not enabled",
			request:  ipc.NewMessage(ipc.KindDisable, "b.yaml"),
			contains: daemon.ErrNotEnabled.Error(),
		},
		{
			name:     "umount missing mount",
			request:  ipc.NewMessage(ipc.KindUmount, "/ghost"),
			contains: unit.ErrMemberNotFound.Error(),
		},
		{
			name:     "umount no payload",
			request:  ipc.NewRequest(ipc.KindUmount),
			contains: ipc.ErrMissingPayload.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := ipc.Send(f.socket, tt.request)
			require.NoError(t, err)
			assert.Equal(t, ipc.KindError, reply.Kind)
			assert.Contains(t, reply.PayloadString(), tt.contains)
		})
	}
}

func TestDaemon_Toggle(t *testing.T) {
	f := newFixture(t, false)
	f.run(t)

	enabledFile := filepath.Join(f.dir, unit.EnabledFile)

	reply := f.request(t, ipc.KindEnable, "b.yaml")
	assert.Equal(t, ipc.KindEnable, reply.Kind)
	assert.True(t, snapshotUnits(t, reply).IsEnabled(name.New("b.yaml")))

	content, err := os.ReadFile(enabledFile)
	require.NoError(t, err)
	assert.Equal(t, "a.yaml\nb.yaml\n", string(content))

	reply = f.request(t, ipc.KindDisable, "a.yaml")
	assert.False(t, snapshotUnits(t, reply).IsEnabled(name.New("a.yaml")))

	content, err = os.ReadFile(enabledFile)
	require.NoError(t, err)
	assert.Equal(t, "b.yaml\n", string(content))
}

func TestDaemon_Toggle_SaveFails(t *testing.T) {
	f := newFixture(t, false)
	require.NoError(t, f.daemon.Load())

	enabledFile := filepath.Join(f.dir, unit.EnabledFile)
	require.NoError(t, os.Remove(enabledFile))
	require.NoError(t, os.Mkdir(enabledFile, 0o700))

	tests := []struct {
		name            string
		request         ipc.Message
		unit            string
		expectedEnabled bool
	}{
		{
			name:            "enable",
			request:         ipc.NewMessage(ipc.KindEnable, "b.yaml"),
			unit:            "b.yaml",
			expectedEnabled: false,
		},
		{
			name:            "disable",
			request:         ipc.NewMessage(ipc.KindDisable, "a.yaml"),
			unit:            "a.yaml",
			expectedEnabled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := f.daemon.Handle(tt.request)
			assert.Equal(t, ipc.KindError, reply.Kind)
			assert.Contains(t, reply.PayloadString(), "save enabled set")

			f.daemon.Registry().Read(func(units *unit.Units) {
				assert.Equal(t, tt.expectedEnabled, units.IsEnabled(name.New(tt.unit)))
			})
		})
	}
}

func TestDaemon_Umount(t *testing.T) {
	f := newFixture(t, false)
	f.run(t)

	require.Equal(t, []string{"/proc"}, f.mounts.mounted())

	reply := f.request(t, ipc.KindUmount, "a.yaml@/proc")
	require.NoError(t, reply.Err())
	assert.Equal(t, ipc.KindUmount, reply.Kind)
	assert.Equal(t, []string{"/proc"}, f.mounts.unmounted())
	assert.Empty(t, f.mounts.mounted())

	// Neither mounted again nor ever mounted targets are left alone.
	for _, qualifier := range []string{"/proc", "b.yaml@/never"} {
		reply = f.request(t, ipc.KindUmount, qualifier)
		require.NoError(t, reply.Err())
	}

	assert.Equal(t, []string{"/proc"}, f.mounts.unmounted())
}

func TestDaemon_Run_WatchFails(t *testing.T) {
	f := newFixture(t, true)
	f.daemon.Boot()

	require.NoError(t, os.RemoveAll(f.dir))
	f.serve(t)

	assert.Never(t, f.returned, 20*tick, tick)

	assert.Eventually(t, func() bool {
		return f.state(t, "a.yaml", "oneshot") == unit.Exited(0)
	}, waitFor, tick)

	reply := f.request(t, ipc.KindList, "")
	assert.Equal(t, 2, snapshotUnits(t, reply).Len())
	assert.False(t, f.returned())
}

func TestDaemon_Handle_Unknown(t *testing.T) {
	f := newFixture(t, false)

	reply := f.daemon.Handle(ipc.NewRequest("reboot"))
	assert.Equal(t, ipc.KindUnknown, reply.Kind)
}

func TestDaemon_Run_NotListening(t *testing.T) {
	f := newFixture(t, false)

	err := f.daemon.Run(context.Background())
	require.ErrorIs(t, err, daemon.ErrNotListening)
}

func TestDaemon_Listen_Fails(t *testing.T) {
	cfg := config.Default()
	cfg.Control.Socket = filepath.Join(t.TempDir(), "missing", "rind.sock")

	d := daemon.New(cfg, zaptest.NewLogger(t))
	require.Error(t, d.Listen())
}

func TestDaemon_Load_Partial(t *testing.T) {
	f := newFixture(t, false)
	writeUnits(t, f.dir, map[string]string{
		"aa.yaml": "mount:\n  - target: /x\n    flags: [MS_BOGUS]\n",
	})

	err := f.daemon.Load()
	require.ErrorIs(t, err, unit.ErrUnknownMountFlag)

	f.daemon.Registry().Read(func(units *unit.Units) {
		assert.Equal(t, []name.Name{name.New("a.yaml")}, units.Names())
	})
}

func TestDaemon_Watch(t *testing.T) {
	f := newFixture(t, true)
	f.run(t)

	const unitC = "service:\n  - name: late\n    exec: /bin/true\n"

	assert.Eventually(t, func() bool {
		writeUnits(t, f.dir, map[string]string{"c.yaml": unitC})

		var exists bool

		f.daemon.Registry().Read(func(units *unit.Units) {
			_, exists = units.Unit(name.New("c.yaml"))
		})

		return exists
	}, waitFor, 5*tick)

	assert.Eventually(t, func() bool {
		writeUnits(t, f.dir, map[string]string{unit.EnabledFile: "c.yaml\n"})

		var enabled bool

		f.daemon.Registry().Read(func(units *unit.Units) {
			enabled = units.IsEnabled(name.New("c.yaml")) &&
				units.IsEnabled(name.New("a.yaml"))
		})

		return enabled
	}, waitFor, 5*tick)
}
