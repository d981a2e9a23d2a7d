package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// run parses args the way rangectl does and returns what the command printed.
func run(t *testing.T, secrets []string, args ...string) (string, error) {
	t.Helper()

	var root Root
	parser, err := kong.New(&root, kong.Name("rangectl"), kong.Vars{"version": "test"}, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)

	base := []string{"--now", "2025-03-10T15:00:00Z", "--tz", "UTC", "--store-dir", t.TempDir(), "--epoch", "2024-01-01"}
	kctx, err := parser.Parse(append(base, args...))
	require.NoError(t, err)

	var out bytes.Buffer
	ctx, err := root.Context(&out)
	require.NoError(t, err)
	ctx.ReadSecret = func(string) (string, error) {
		require.NotEmpty(t, secrets, "unexpected prompt")
		s := secrets[0]
		secrets = secrets[1:]
		return s, nil
	}

	err = kctx.Run(ctx)
	return out.String(), err
}

func TestResolveCommand(t *testing.T) {
	out, err := run(t, nil, "resolve", "last month")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-01 2025-02-28\n", out)

	out, err = run(t, nil, "resolve", "weekly")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04 2025-03-10\n", out)

	_, err = run(t, nil, "resolve", "fortnightly")
	assert.Error(t, err)
}

func TestCustomCommandOrdersDays(t *testing.T) {
	out, err := run(t, nil, "custom", "2025-03-09", "2025-03-02")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-02 2025-03-09\n", out)

	_, err = run(t, nil, "custom", "2025-03-09", "9 March")
	assert.Error(t, err)
}

func TestPresetsCommand(t *testing.T) {
	out, err := run(t, nil, "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "last_7_days")
	assert.Contains(t, out, "2024-01-01")
	assert.Contains(t, out, "Last month")
}

func TestCalendarCommand(t *testing.T) {
	out, err := run(t, nil, "calendar", "2025-03", "--anchor", "2025-03-12", "--terminus", "2025-03-03")
	require.NoError(t, err)
	assert.Contains(t, out, "March 2025")
	assert.Contains(t, out, "April 2025")
	assert.Contains(t, out, "[3]")
	assert.Contains(t, out, "[12]")
	assert.Contains(t, out, "~10*")
	assert.Contains(t, out, "selected 2025-03-03 to 2025-03-12")

	_, err = run(t, nil, "calendar", "03/2025")
	assert.Error(t, err)
}

func TestRecentCommands(t *testing.T) {
	dir := t.TempDir()

	exec := func(args ...string) string {
		var root Root
		parser, err := kong.New(&root, kong.Name("rangectl"), kong.Vars{"version": "test"})
		require.NoError(t, err)
		kctx, err := parser.Parse(append([]string{"--now", "2025-03-10", "--tz", "UTC", "--store-dir", dir}, args...))
		require.NoError(t, err)
		var out bytes.Buffer
		ctx, err := root.Context(&out)
		require.NoError(t, err)
		require.NoError(t, kctx.Run(ctx))
		return out.String()
	}

	assert.Equal(t, "no recent ranges\n", exec("recent"))
	exec("recent", "record", "2025-01-01", "2025-01-31")
	exec("resolve", "today", "--record")
	out := exec("recent", "record", "2025-01-01", "2025-01-31")
	assert.Equal(t, "1. 2025-01-01 2025-01-31\n2. 2025-03-10 2025-03-10\n", out)

	exec("recent", "clear")
	assert.Equal(t, "no recent ranges\n", exec("recent", "list"))
}

func TestHashAdminKeyCommand(t *testing.T) {
	key := "correct-horse-battery"
	out, err := run(t, []string{key, key}, "hash-admin-key")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "ADMIN_KEY_HASH="))
	hash := strings.TrimSpace(strings.TrimPrefix(out, "ADMIN_KEY_HASH="))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)))

	_, err = run(t, []string{key, key + "x"}, "hash-admin-key")
	assert.ErrorIs(t, err, errKeyMismatch)

	_, err = run(t, []string{"short"}, "hash-admin-key")
	assert.Error(t, err)
}
