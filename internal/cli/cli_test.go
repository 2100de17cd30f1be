package cli

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	ststypes "github.com/aws/aws-sdk-go-v2/service/sts/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.level))
		})
	}
}

func TestSetupLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := setupLogger(&buf, "warn")

	l.Info("hidden")
	l.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestWriteParameters_SortedByName(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, writeParameters(&buf, map[string]string{"/b": "2", "/a": "1"}))

	assert.Equal(t, "/a=1\n/b=2\n", buf.String())
}

func TestWriteCredentials(t *testing.T) {
	var buf bytes.Buffer

	err := writeCredentials(&buf, &ststypes.Credentials{
		AccessKeyId:     awssdk.String("AKIA"),
		SecretAccessKey: awssdk.String("secret"),
		SessionToken:    awssdk.String("token"),
	})

	require.NoError(t, err)
	assert.Equal(t, "export AWS_ACCESS_KEY_ID=AKIA\nexport AWS_SECRET_ACCESS_KEY=secret\nexport AWS_SESSION_TOKEN=token\n", buf.String())
}

func TestWriteItems_MissingFieldsAreBlank(t *testing.T) {
	var buf bytes.Buffer

	err := writeItems(&buf, []map[string]any{
		{"id": "sig-1", "name": "web"},
		{"id": "sig-2"},
	}, "id", "name")

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "sig-1")
	assert.Contains(t, buf.String(), "web")
	assert.Contains(t, buf.String(), "sig-2")
	assert.NotContains(t, buf.String(), "<nil>")
}

func TestVersionCommand(t *testing.T) {
	AwsutilsVersion, AwsutilsCommit, AwsutilsDate = "1.2.3", "abc123", "2026-01-01"
	var out bytes.Buffer
	rootCommand.SetOut(&out)
	rootCommand.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCommand.SetOut(nil); rootCommand.SetArgs(nil) })

	require.NoError(t, Execute())

	assert.Contains(t, out.String(), "awsutils version: 1.2.3")
	assert.Contains(t, out.String(), "Commit: abc123")
}

func TestS3List_RejectsNonS3URI(t *testing.T) {
	rootCommand.SetOut(&bytes.Buffer{})
	rootCommand.SetErr(&bytes.Buffer{})
	rootCommand.SetArgs([]string{"s3", "ls", "https://bucket/key"})
	t.Cleanup(func() { rootCommand.SetOut(nil); rootCommand.SetErr(nil); rootCommand.SetArgs(nil) })

	err := Execute()

	assert.ErrorContains(t, err, "invalid S3 URI")
}

func TestSpotinstGroups(t *testing.T) {
	var auth, account string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		account = r.URL.Query().Get("accountId")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"request":{"id":"r"},"response":{"status":{"code":200},"items":[{"id":"sig-42","name":"checkout"}]}}`))
	}))
	t.Cleanup(server.Close)

	var out bytes.Buffer
	rootCommand.SetOut(&out)
	rootCommand.SetErr(&bytes.Buffer{})
	rootCommand.SetArgs([]string{
		"spotinst", "groups",
		"--spotinst-token", "tok",
		"--spotinst-account", "act-9",
		"--spotinst-url", server.URL,
		"--log-level", "error",
	})
	t.Cleanup(func() { rootCommand.SetOut(nil); rootCommand.SetErr(nil); rootCommand.SetArgs(nil) })

	require.NoError(t, Execute())

	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "act-9", account)
	assert.Contains(t, out.String(), "sig-42")
	assert.Contains(t, out.String(), "checkout")
}
