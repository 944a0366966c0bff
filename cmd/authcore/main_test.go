// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/holomush/authcore/internal/auth"
	"github.com/holomush/authcore/internal/auth/jwt"
	"github.com/holomush/authcore/internal/config"
	"github.com/holomush/authcore/pkg/errutil"
)

// syncBuffer is a bytes.Buffer safe for a command writing in another goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// memoryDeps shares one in-memory backend across command invocations.
func memoryDeps(t *testing.T) (*Deps, *Backend) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	backend := newMemoryBackend(auth.SystemClock{})
	deps := &Deps{
		OpenBackend: func(context.Context, *config.Config, *slog.Logger) (*Backend, error) {
			return backend, nil
		},
	}
	return deps, backend
}

// withSecret sets a fresh signing key and cheap hashing for the test.
func withSecret(t *testing.T) {
	t.Helper()
	key, err := jwt.GenerateKey()
	require.NoError(t, err)
	t.Setenv("AUTHCORE_TOKEN_SECRET", key)
	t.Setenv("AUTHCORE_PASSWORD_ARGON2_MEMORY_KIB", "1024")
	t.Setenv("AUTHCORE_PASSWORD_ARGON2_THREADS", "1")
}

// run executes the CLI and returns stdout. Logs go to a separate buffer.
func run(t *testing.T, deps *Deps, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(deps)
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--session-store", "memory"))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	want := []string{"serve", "migrate", "user", "session", "token", "service", "status"}
	for _, name := range want {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		require.Equal(t, name, sub.Name())
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"config", "database-url", "session-store", "log-format", "metrics-addr", "sweep-interval"} {
		require.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	require.Nil(t, cmd.PersistentFlags().Lookup("token-secret"), "secrets are never flags")
}

func TestReadSecret(t *testing.T) {
	got, err := readSecret(strings.NewReader("s3cret pass\r\nignored\n"), "password")
	require.NoError(t, err)
	require.Equal(t, "s3cret pass", got)

	got, err = readSecret(strings.NewReader("no-newline"), "password")
	require.NoError(t, err)
	require.Equal(t, "no-newline", got)

	_, err = readSecret(strings.NewReader(""), "password")
	errutil.AssertErrorCode(t, err, "INPUT_MISSING")

	_, err = readSecret(strings.NewReader("\n"), "password")
	errutil.AssertErrorCode(t, err, "INPUT_MISSING")
}
