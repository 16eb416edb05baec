package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgpai22/subtitlegen/internal/subtitle"
)

// runCLI executes a fresh command tree and returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// noConfig points --config at an empty file so a subtitlegen.yaml in the
// working directory cannot leak into a test.
func noConfig(t *testing.T) string {
	return writeFile(t, "subtitlegen.yaml", "")
}

func TestGenerateToStdout(t *testing.T) {
	csv := writeFile(t, "dive.csv", "0,00:00:10,000\n1,00:00:20,000\n")

	stdout, _, err := runCLI(t, "generate", csv, "--config", noConfig(t))
	require.NoError(t, err)

	want := "0\n00:00:10,000 --> 00:00:19,999\n~ 0 m [00:00:10,000 | 10.0]\n\n"
	assert.Equal(t, want, stdout)
}

func TestGeneratePartitioned(t *testing.T) {
	csv := writeFile(t, "dive.csv", "0,00:00:00,000\n6,00:00:10,000\n")

	stdout, _, err := runCLI(t,
		"generate", csv,
		"--config", noConfig(t),
		"-p", "3",
		"-s", "short",
	)
	require.NoError(t, err)

	want := strings.Join([]string{
		"0\n00:00:00,000 --> 00:00:03,332\n~ 0 m\n",
		"1\n00:00:03,333 --> 00:00:06,665\n~ 2 m\n",
		"2\n00:00:06,666 --> 00:00:09,998\n~ 4 m\n",
	}, "\n") + "\n"
	assert.Equal(t, want, stdout)
}

func TestGenerateReportsSkippedPairs(t *testing.T) {
	csv := writeFile(t, "dive.csv", "0,00:00:00,000\n1,00:00:10,000\n2,not-a-time\n")

	stdout, stderr, err := runCLI(t, "generate", csv, "--config", noConfig(t))
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(stdout, "-->"), "one pair converts: %s", stdout)
	assert.NotContains(t, stdout, "Skipped")

	assert.Contains(t, stderr, "Skipped row pair")
	assert.Contains(t, stderr, subtitle.FieldNextTime)
	assert.Contains(t, stderr, "[2, not-a-time]")
}

func TestGenerateSkipsMalformedRecord(t *testing.T) {
	csv := writeFile(t, "dive.csv", "0,00:00:10\ngarbage\n1,00:00:20\n2,00:00:30\n")

	stdout, stderr, err := runCLI(t, "generate", csv, "--config", noConfig(t))
	require.NoError(t, err)

	want := "0\n00:00:20,000 --> 00:00:29,999\n~ 1 m [00:00:20,000 | 10.0]\n\n"
	assert.Equal(t, want, stdout)
	assert.Contains(t, stderr, subtitle.FieldNextRow)
	assert.Contains(t, stderr, subtitle.FieldCurrentRow)

	_, _, err = runCLI(t, "generate", csv, "--config", noConfig(t), "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected exactly two fields")
}

func TestGenerateStrictFails(t *testing.T) {
	csv := writeFile(t, "dive.csv", "0,00:00:00,000\n1,00:00:10,000\n2,not-a-time\n")

	stdout, _, err := runCLI(t, "generate", csv, "--config", noConfig(t), "--strict")
	require.Error(t, err)
	assert.Empty(t, stdout)

	var pairErr *subtitle.PairError
	require.True(t, errors.As(err, &pairErr), "expected a PairError, got %v", err)
	assert.Equal(t, 1, pairErr.Pair)
	assert.Equal(t, subtitle.KindParse, pairErr.Kind())
}

func TestGenerateOutputFileFormatFromExtension(t *testing.T) {
	csv := writeFile(t, "run.csv", "0,00:00:00,000\n1,00:00:05,000\n")
	out := filepath.Join(t.TempDir(), "nested", "run.vtt")

	stdout, _, err := runCLI(t, "generate", csv, "--config", noConfig(t), "-o", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "WEBVTT\n\n"), "got %q", data)
	assert.Contains(t, string(data), "00:00:00.000 --> 00:00:04.999")
}

func TestGenerateFormatFlagWinsOverExtension(t *testing.T) {
	csv := writeFile(t, "run.csv", "0,00:00:00,000\n1,00:00:05,000\n")
	out := filepath.Join(t.TempDir(), "run.txt")

	_, _, err := runCLI(t, "generate", csv, "--config", noConfig(t), "-o", out, "-f", "json")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"begin_ms": 0`)
}

func TestGenerateUsesConfigFile(t *testing.T) {
	csv := writeFile(t, "run.csv", "0,00:00:00,000\n4,00:00:10,000\n")
	cfg := writeFile(t, "subtitlegen.yaml", `
partition: 2
style: short
messages:
  short: "{value} km"
`)

	stdout, _, err := runCLI(t, "generate", csv, "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, stdout, "\n0 km\n")
	assert.Contains(t, stdout, "\n2 km\n")

	// an explicit flag beats the file
	stdout, _, err = runCLI(t, "generate", csv, "--config", cfg, "-p", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(stdout, "-->"))
}

func TestGenerateErrors(t *testing.T) {
	csv := writeFile(t, "run.csv", "0,00:00:00,000\n1,00:00:05,000\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "missing input",
			args: []string{"generate", filepath.Join(t.TempDir(), "absent.csv")},
			want: "file not found",
		},
		{
			name: "watch without output",
			args: []string{"generate", csv, "--config", noConfig(t), "--watch"},
			want: "--watch requires --output",
		},
		{
			name: "unknown style",
			args: []string{"generate", csv, "--config", noConfig(t), "-s", "medium"},
			want: "unknown style",
		},
		{
			name: "unknown format",
			args: []string{"generate", csv, "--config", noConfig(t), "-f", "sub"},
			want: "unsupported format",
		},
		{
			name: "negative partition",
			args: []string{"generate", csv, "--config", noConfig(t), "--partition=-2"},
			want: "partition",
		},
		{
			name: "explicit config missing",
			args: []string{"generate", csv, "--config", filepath.Join(t.TempDir(), "absent.yaml")},
			want: "failed to read config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWatchFile(t *testing.T) {
	path := writeFile(t, "live.csv", "0,00:00:00,000\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// keep writing, slower than the debounce, until the watcher is up and
	// has seen one
	ticker := time.NewTicker(2 * watchDebounce)
	defer ticker.Stop()
	timeout := time.After(5 * time.Second)

wait:
	for {
		select {
		case <-changed:
			break wait
		case <-ticker.C:
			require.NoError(t, os.WriteFile(path, []byte("0,00:00:00,000\n1,00:00:01,000\n"), 0644))
		case <-timeout:
			t.Fatal("watcher never reported a change")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatchFileIgnoresSiblings(t *testing.T) {
	path := writeFile(t, "live.csv", "")
	sibling := filepath.Join(filepath.Dir(path), "other.csv")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	calls := 0
	go func() {
		time.Sleep(200 * time.Millisecond)
		_ = os.WriteFile(sibling, []byte("x"), 0644)
	}()

	require.NoError(t, watchFile(ctx, path, func() { calls++ }))
	assert.Zero(t, calls)
}
