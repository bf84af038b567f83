package cmd

import (
	"bytes"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fairjournal/journalfs/pkg/core"
	"github.com/fairjournal/journalfs/pkg/model"
	"github.com/fairjournal/journalfs/pkg/storage"
	"github.com/fairjournal/journalfs/pkg/storage/localfs"
	"github.com/fairjournal/journalfs/pkg/verify"
	"github.com/fairjournal/journalfs/pkg/vfs"
	"github.com/fairjournal/journalfs/pkg/web"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ExitMocks struct {
	mock.Mock
	fatalCalls int
	messages   []string
}

func (m *ExitMocks) Fatalf(format string, v ...interface{}) {
	m.fatalCalls++
	m.messages = append(m.messages, fmt.Sprintf(format, v...))
}

func (m *ExitMocks) Fatalln(v ...interface{}) {
	m.fatalCalls++
	m.messages = append(m.messages, fmt.Sprint(v...))
}

// setupTests captures fatal errors and the output of commands
func setupTests(t *testing.T) (*ExitMocks, *bytes.Buffer) {
	exitMocks := new(ExitMocks)
	logFatalf = exitMocks.Fatalf
	logFatalln = exitMocks.Fatalln

	var out bytes.Buffer
	outLogger.SetOutput(&out)
	infoLogger.SetOutput(&bytes.Buffer{})

	dir := t.TempDir()
	t.Setenv(envConfig, "")
	t.Setenv("JOURNALFS_BACKEND_PATH", filepath.Join(dir, "bags"))
	t.Setenv("JOURNALFS_PROJECT_NAME", "cli-journal")
	t.Setenv("JOURNALFS_LOG_LEVEL", "none")
	t.Setenv("JOURNALFS_DATA_DIR", filepath.Join(dir, "data"))

	t.Cleanup(func() {
		outLogger.SetOutput(os.Stdout)
		infoLogger.SetOutput(os.Stderr)
	})
	return exitMocks, &out
}

func runCmd(t *testing.T, args ...string) {
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), "cmd %v", args)
}

func TestLoadConfig(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
project_name: my-journal
max_blob_size: 2MiB
storage_timeout: 5s
backend:
  kind: s3
  bucket: journal-bags
  region: eu-west-1
`)))

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "my-journal", cfg.ProjectName)
	assert.Equal(t, "s3", cfg.Backend.Kind)
	assert.Equal(t, "journal-bags", cfg.Backend.Bucket)
	assert.Equal(t, ":5100", cfg.Listen)
	assert.Equal(t, "5s", cfg.StorageTimeout.String())
	size, err := cfg.MaxBlobBytes()
	require.NoError(t, err)
	assert.EqualValues(t, 2<<20, size)

	v.Set("backend.kind", "tape")
	_, err = loadConfig(v)
	assert.Error(t, err)
}

func TestReadUpdate(t *testing.T) {
	signer, err := verify.GenerateSigner()
	require.NoError(t, err)
	u := model.NewUpdate("p", signer.Address(), 1).AddAction(model.NewAddUser(signer.Address()))
	require.NoError(t, signer.Sign(u))
	wire, err := u.Marshal()
	require.NoError(t, err)

	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.json")
	require.NoError(t, os.WriteFile(plain, wire, 0o600))
	wrapped := filepath.Join(dir, "wrapped.json")
	require.NoError(t, os.WriteFile(wrapped, []byte(`{"update":`+string(wire)+`}`), 0o600))

	for _, file := range []string{plain, wrapped} {
		read, err := readUpdate(file)
		require.NoError(t, err)
		assert.Equal(t, u, read)
	}

	_, err = readUpdate(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestRemoteCommands(t *testing.T) {
	exitMocks, out := setupTests(t)

	store, err := vfs.Open("", vfs.WithInMemory(true))
	require.NoError(t, err)
	svc, err := core.New(store, storage.NewBags(localfs.New(afero.NewMemMapFs())), core.WithProjectName("cli-journal"))
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()
	srv, err := web.NewServer(web.ServerParams{Service: svc})
	require.NoError(t, err)
	server := httptest.NewServer(web.InitRouter(srv))
	defer server.Close()

	dir := t.TempDir()
	doc := []byte(`{"slug":"from-cli","title":"Published from the command line"}`)
	docFile := filepath.Join(dir, "index.json")
	require.NoError(t, os.WriteFile(docFile, doc, 0o600))

	runCmd(t, "blob", "upload", "--server", server.URL, "--file", docFile, "--format", "json")
	require.Zero(t, exitMocks.fatalCalls, "%v", exitMocks.messages)
	var meta model.BlobMetadata
	require.NoError(t, jsonAPI.Unmarshal(out.Bytes(), &meta))
	assert.EqualValues(t, len(doc), meta.Size)
	out.Reset()

	author, err := verify.GenerateSigner()
	require.NoError(t, err)
	u := model.NewUpdate("cli-journal", author.Address(), 1).
		AddAction(model.NewAddUser(author.Address())).
		AddAction(model.NewAddDirectory("/articles")).
		AddAction(model.NewAddDirectory("/articles/from-cli")).
		AddAction(model.NewAddFile(model.ArticlePath("from-cli"), meta.MimeType, meta.Size, meta.SHA256))
	require.NoError(t, author.Sign(u))
	wire, err := u.Marshal()
	require.NoError(t, err)
	updateFile := filepath.Join(dir, "update.json")
	require.NoError(t, os.WriteFile(updateFile, wire, 0o600))

	runCmd(t, "update", "apply", "--server", server.URL, "--file", updateFile)
	require.Zero(t, exitMocks.fatalCalls, "%v", exitMocks.messages)

	runCmd(t, "user", "sequence", "--server", server.URL, "--address", author.Address())
	assert.Equal(t, "1", strings.TrimSpace(out.String()))
	out.Reset()

	runCmd(t, "article", "list", "--server", server.URL, "--address", author.Address(), "--format", "json")
	var articles []model.ArticleInfo
	require.NoError(t, jsonAPI.Unmarshal(out.Bytes(), &articles))
	assert.Equal(t, []model.ArticleInfo{{Slug: "from-cli", ShortText: "Published from the command line"}}, articles)
	out.Reset()

	runCmd(t, "article", "get", "--server", server.URL, "--address", author.Address(), "--slug", "from-cli")
	assert.JSONEq(t, string(doc), out.String())
	out.Reset()

	// applying the same update again is rejected by the server
	runCmd(t, "update", "apply", "--server", server.URL, "--file", updateFile)
	require.Equal(t, 1, exitMocks.fatalCalls)
	assert.Contains(t, exitMocks.messages[0], "Sequence conflict")
}

func TestLocalCommands(t *testing.T) {
	exitMocks, out := setupTests(t)

	runCmd(t, "config", "show")
	require.Zero(t, exitMocks.fatalCalls, "%v", exitMocks.messages)
	assert.Contains(t, out.String(), "project_name: cli-journal")
	out.Reset()

	runCmd(t, "fs", "reset")
	require.Equal(t, 1, exitMocks.fatalCalls, "reset requires --force")

	runCmd(t, "fs", "reset", "--force")
	require.Equal(t, 1, exitMocks.fatalCalls, "%v", exitMocks.messages)

	runCmd(t, "fs", "reconcile", "--format", "json")
	require.Equal(t, 1, exitMocks.fatalCalls, "%v", exitMocks.messages)
	var report core.ReconcileReport
	require.NoError(t, jsonAPI.Unmarshal(out.Bytes(), &report))
	assert.Zero(t, report.Checked)
	out.Reset()

	runCmd(t, "fs", "list", "--address", "unknown", "--format", "table")
	require.Equal(t, 2, exitMocks.fatalCalls)
	assert.Contains(t, exitMocks.messages[1], `User not found: "unknown"`)
}
