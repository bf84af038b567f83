package core

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/fairjournal/journalfs/pkg/core/status"
	"github.com/fairjournal/journalfs/pkg/errors"
	"github.com/fairjournal/journalfs/pkg/model"
	"github.com/fairjournal/journalfs/pkg/verify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) publishArticle(t testing.TB, author *verify.Signer, slug string, doc []byte) {
	meta := e.ingest(t, doc)
	require.NoError(t, e.publish(t, author,
		model.NewAddDirectory(model.JoinPath(model.ArticlesDir, slug)),
		model.NewAddFile(model.ArticlePath(slug), "application/json", meta.Size, meta.SHA256),
	))
}

func TestMultiAuthorArticles(t *testing.T) {
	const (
		authors  = 3
		articles = 3
	)
	env := newTestEnv(t)
	ctx := context.Background()

	signers := make([]*verify.Signer, authors)
	for i := range signers {
		signers[i] = newAuthor(t)
	}

	// authors publish concurrently, each one sequentially
	var wg sync.WaitGroup
	for i, author := range signers {
		wg.Add(1)
		go func(i int, author *verify.Signer) {
			defer wg.Done()
			env.register(t, author, model.NewAddDirectory("/articles"))
			for j := 0; j < articles; j++ {
				slug := fmt.Sprintf("author-%d-article-%d", i, j)
				env.publishArticle(t, author, slug, articleDoc(slug, j))
			}
		}(i, author)
	}
	wg.Wait()

	count, err := env.svc.UpdatesCount()
	require.NoError(t, err)
	assert.EqualValues(t, authors*(1+articles), count)

	for i, author := range signers {
		list, err := env.svc.ListArticles(ctx, author.Address())
		require.NoError(t, err)
		require.Len(t, list, articles)

		for j, info := range list {
			slug := fmt.Sprintf("author-%d-article-%d", i, j)
			assert.Equal(t, slug, info.Slug, "articles are listed in publication order")
			assert.Equal(t, fmt.Sprintf("Article number %d Lorem ipsum for article %d", j, j), info.ShortText)

			article, err := env.svc.GetArticle(ctx, author.Address(), slug)
			require.NoError(t, err)
			assert.Equal(t, slug, article.Slug)
			assert.JSONEq(t, string(articleDoc(slug, j)), string(article.Data))
		}
	}
}

func TestArticleNotFoundChains(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := newAuthor(t)
	stranger := newAuthor(t)
	env.register(t, author)

	_, err := env.svc.GetArticle(ctx, stranger.Address(), "any")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrUserNotFound))
	assert.Equal(t, fmt.Sprintf(`User not found: "%s"`, stranger.Address()), err.Error())

	_, err = env.svc.ListArticles(ctx, stranger.Address())
	assert.True(t, errors.Is(err, status.ErrUserNotFound))

	list, err := env.svc.ListArticles(ctx, author.Address())
	require.NoError(t, err)
	assert.Empty(t, list, "a user without articles directory has no article")

	_, err = env.svc.GetArticle(ctx, author.Address(), "my-slug")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrArticleNotFound))
	assert.True(t, errors.Is(err, status.ErrFileNotFound), "the missing segment is chained")
	assert.Equal(t, `Article not found: "my-slug". Get item: file not found: "articles"`, err.Error())

	require.NoError(t, env.publish(t, author, model.NewAddDirectory("/articles"), model.NewAddDirectory("/articles/draft")))

	_, err = env.svc.GetArticle(ctx, author.Address(), "my-slug")
	assert.Equal(t, `Article not found: "my-slug". Get item: file not found: "my-slug"`, err.Error())

	_, err = env.svc.GetArticle(ctx, author.Address(), "draft")
	assert.Equal(t, `Article not found: "draft". Get item: file not found: "index-json"`, err.Error())

	_, err = env.svc.GetArticle(ctx, author.Address(), "../etc")
	assert.True(t, errors.Is(err, status.ErrArticleNotFound))

	list, err = env.svc.ListArticles(ctx, author.Address())
	require.NoError(t, err)
	assert.Empty(t, list, "directories without index are not articles")

	env.publishArticle(t, author, "published", []byte(`{"slug":"published","shortText":"  An   explicit\nexcerpt "}`))
	list, err = env.svc.ListArticles(ctx, author.Address())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.ArticleInfo{Slug: "published", ShortText: "An explicit excerpt"}, list[0])
}

func TestArticleWithInvalidDocument(t *testing.T) {
	env := newTestEnv(t)
	author := newAuthor(t)
	env.register(t, author, model.NewAddDirectory("/articles"))
	env.publishArticle(t, author, "broken", []byte(`{"slug": "broken", "title": `))

	_, err := env.svc.GetArticle(context.Background(), author.Address(), "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid JSON document")

	_, err = env.svc.ListArticles(context.Background(), author.Address())
	require.Error(t, err)
}
