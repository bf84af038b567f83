package web

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fairjournal/journalfs/pkg/core"
	"github.com/fairjournal/journalfs/pkg/metrics"
	"github.com/fairjournal/journalfs/pkg/model"
	"github.com/fairjournal/journalfs/pkg/storage"
	"github.com/fairjournal/journalfs/pkg/storage/localfs"
	"github.com/fairjournal/journalfs/pkg/verify"
	"github.com/fairjournal/journalfs/pkg/vfs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	testProject = "web-journal"
	maxBlobSize = 4 * metrics.KB
)

type client struct {
	t      testing.TB
	server *httptest.Server
}

func newTestServer(t testing.TB) *client {
	store, err := vfs.Open("", vfs.WithInMemory(true))
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	svc, err := core.New(store, storage.NewBags(localfs.New(afero.NewMemMapFs())),
		core.WithProjectName(testProject),
		core.WithMaxBlobSize(maxBlobSize),
		core.WithMetrics(m),
	)
	require.NoError(t, err)

	srv, err := NewServer(ServerParams{Service: svc, Logger: zaptest.NewLogger(t), Gatherer: reg})
	require.NoError(t, err)

	server := httptest.NewServer(InitRouter(srv))
	t.Cleanup(func() {
		server.Close()
		require.NoError(t, svc.Close())
	})
	return &client{t: t, server: server}
}

func (c *client) decode(resp *http.Response, target interface{}) {
	defer func() { _ = resp.Body.Close() }()
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(target))
}

func (c *client) upload(content []byte) (*http.Response, map[string]interface{}) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("blob", "blob.bin")
	require.NoError(c.t, err)
	_, err = part.Write(content)
	require.NoError(c.t, err)
	require.NoError(c.t, form.Close())

	resp, err := http.Post(c.server.URL+"/v1/fs/blob/upload", form.FormDataContentType(), &body)
	require.NoError(c.t, err)
	var result map[string]interface{}
	c.decode(resp, &result)
	return resp, result
}

func (c *client) apply(u *model.Update) (*http.Response, map[string]interface{}) {
	payload, err := json.Marshal(applyRequest{Update: u})
	require.NoError(c.t, err)
	resp, err := http.Post(c.server.URL+"/v1/fs/update/apply", "application/json", bytes.NewReader(payload))
	require.NoError(c.t, err)
	var result map[string]interface{}
	c.decode(resp, &result)
	return resp, result
}

func (c *client) get(path string, target interface{}) *http.Response {
	resp, err := http.Get(c.server.URL + path)
	require.NoError(c.t, err)
	c.decode(resp, target)
	return resp
}

func (c *client) updateID(address string) uint64 {
	var result updateIDResponse
	resp := c.get("/v1/fs/user/get-update-id?address="+address, &result)
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
	return result.UpdateID
}

func (c *client) signedUpdate(author *verify.Signer, actions ...model.Action) *model.Update {
	u := model.NewUpdate(testProject, author.Address(), c.updateID(author.Address())+1)
	for _, action := range actions {
		u.AddAction(action)
	}
	require.NoError(c.t, author.Sign(u))
	return u
}

func TestUploadBlob(t *testing.T) {
	c := newTestServer(t)
	content := []byte("some plain text")

	var first map[string]interface{}
	for i := 0; i < 3; i++ {
		resp, result := c.upload(content)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
		assert.Equal(t, "ok", result["status"])
		if first == nil {
			first = result
			continue
		}
		assert.Equal(t, first, result)
	}
	data := first["data"].(map[string]interface{})
	assert.Equal(t, "text/plain", data["mime_type"])
	assert.EqualValues(t, len(content), data["size"])
	assert.Equal(t, storage.HandleFor(content), data["reference"])
	assert.Len(t, data["sha256"], 64)

	resp, result := c.upload(bytes.Repeat([]byte("x"), maxBlobSize+1))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{"status": "error", "message": "File too large"}, result)

	resp, result = c.upload(bytes.Repeat([]byte("x"), maxBlobSize))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", result["status"])
}

func TestUploadWithoutBlob(t *testing.T) {
	c := newTestServer(t)
	resp, err := http.Post(c.server.URL+"/v1/fs/blob/upload", "text/plain", strings.NewReader("raw"))
	require.NoError(t, err)
	var result errorResponse
	c.decode(resp, &result)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "error", result.Status)
	assert.Contains(t, result.Message, `"blob"`)
}

func TestApplyUpdateAndArticles(t *testing.T) {
	c := newTestServer(t)
	author, err := verify.GenerateSigner()
	require.NoError(t, err)

	assert.Zero(t, c.updateID(author.Address()))

	resp, result := c.apply(c.signedUpdate(author, model.NewAddUser(author.Address()), model.NewAddDirectory("/articles")))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{"status": "ok"}, result)
	assert.EqualValues(t, 1, c.updateID(author.Address()))

	slugs := []string{"first-post", "second-post"}
	for _, slug := range slugs {
		doc := []byte(fmt.Sprintf(`{"slug":%q,"title":"About %s"}`, slug, slug))
		resp, result := c.upload(doc)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		data := result["data"].(map[string]interface{})

		resp, result = c.apply(c.signedUpdate(author,
			model.NewAddDirectory("/articles/"+slug),
			model.NewAddFile(model.ArticlePath(slug), "application/json", int64(len(doc)), data["sha256"].(string)),
		))
		require.Equal(t, http.StatusOK, resp.StatusCode, "%v", result)
	}
	assert.EqualValues(t, 3, c.updateID(author.Address()))

	var list articlesResponse
	resp = c.get("/v1/fs/blob/get-articles?userAddress="+author.Address(), &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", list.Status)
	assert.Equal(t, author.Address(), list.UserAddress)
	require.Len(t, list.Articles, 2)
	assert.Equal(t, model.ArticleInfo{Slug: "first-post", ShortText: "About first-post"}, list.Articles[0])
	assert.Equal(t, "second-post", list.Articles[1].Slug)

	var detail struct {
		Status      string `json:"status"`
		UserAddress string `json:"userAddress"`
		Article     struct {
			Slug string                 `json:"slug"`
			Data map[string]interface{} `json:"data"`
		} `json:"article"`
	}
	resp = c.get("/v1/fs/blob/get-article?userAddress="+author.Address()+"&slug=second-post", &detail)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "second-post", detail.Article.Slug)
	assert.Equal(t, "About second-post", detail.Article.Data["title"])

	var failure errorResponse
	resp = c.get("/v1/fs/blob/get-article?userAddress="+author.Address()+"&slug=missing", &failure)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, errorResponse{Status: "error", Message: `Article not found: "missing". Get item: file not found: "missing"`}, failure)
}

func TestApplyUpdateFailures(t *testing.T) {
	c := newTestServer(t)
	author, err := verify.GenerateSigner()
	require.NoError(t, err)
	missing := strings.Repeat("0", 64)

	resp, result := c.apply(c.signedUpdate(author,
		model.NewAddUser(author.Address()),
		model.NewAddFile("/index-json", "application/json", 100, missing),
	))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{"status": "error", "message": fmt.Sprintf(`Reference "%s" not found`, missing)}, result)
	assert.Zero(t, c.updateID(author.Address()))

	r, err := http.Post(c.server.URL+"/v1/fs/update/apply", "application/json", strings.NewReader(`{"update":`))
	require.NoError(t, err)
	c.decode(r, &result)
	assert.Equal(t, http.StatusInternalServerError, r.StatusCode)
	assert.Contains(t, result["message"], "Invalid update")

	var failure errorResponse
	stranger, err := verify.GenerateSigner()
	require.NoError(t, err)
	resp = c.get("/v1/fs/blob/get-articles?userAddress="+stranger.Address(), &failure)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf(`User not found: "%s"`, stranger.Address()), failure.Message)

	resp = c.get("/v1/fs/user/get-update-id", &failure)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, failure.Message, "address")
}

func TestMetricsRoute(t *testing.T) {
	c := newTestServer(t)
	_, _ = c.upload([]byte("counted"))

	resp, err := http.Get(c.server.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `journalfs_blobs_total{outcome="created"} 1`)
}

func TestRequestIDIsEchoed(t *testing.T) {
	c := newTestServer(t)
	req, err := http.NewRequest(http.MethodGet, c.server.URL+"/v1/fs/user/get-update-id?address=abc", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "my-request")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "my-request", resp.Header.Get(RequestIDHeader))
}

func TestNewServerRequiresService(t *testing.T) {
	_, err := NewServer(ServerParams{})
	assert.Error(t, err)
}
