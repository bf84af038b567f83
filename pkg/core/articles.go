package core

import (
	"context"
	"fmt"

	"github.com/fairjournal/journalfs/pkg/core/status"
	"github.com/fairjournal/journalfs/pkg/model"
	"github.com/fairjournal/journalfs/pkg/vfs"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// ListArticles lists the articles published by a user, in creation order.
//
// Articles are the directories under /articles which hold an index-json file. A user without
// any /articles directory has no article.
func (s *Service) ListArticles(ctx context.Context, owner string) ([]model.ArticleInfo, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	var (
		slugs []string
		blobs []model.Blob
	)
	err := s.store.View(func(txn *vfs.Txn) error {
		if err := requireUser(txn, owner); err != nil {
			return err
		}

		articlesDir := model.JoinPath(model.ArticlesDir)
		dir, err := txn.GetNode(owner, articlesDir)
		if err == vfs.ErrNotFound || (err == nil && !dir.IsDir()) {
			return nil
		}
		if err != nil {
			return err
		}

		children, err := txn.Children(owner, articlesDir)
		if err != nil {
			return err
		}
		for _, child := range children {
			if !child.IsDir() {
				continue
			}
			index, err := txn.GetNode(owner, model.ArticlePath(child.Name()))
			if err == vfs.ErrNotFound || (err == nil && index.IsDir()) {
				s.logger.Debug("skipping directory without article index", zap.String("owner", owner), zap.String("path", child.Path))
				continue
			}
			if err != nil {
				return err
			}
			blob, err := blobOf(txn, index)
			if err != nil {
				return err
			}
			slugs = append(slugs, child.Name())
			blobs = append(blobs, blob)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	articles := make([]model.ArticleInfo, 0, len(slugs))
	for i, slug := range slugs {
		data, err := s.fetch(ctx, blobs[i])
		if err != nil {
			return nil, err
		}
		shortText, err := excerpt(data)
		if err != nil {
			return nil, fmt.Errorf("article %q is not a valid JSON document: %w", slug, err)
		}
		articles = append(articles, model.ArticleInfo{Slug: slug, ShortText: shortText})
	}
	return articles, nil
}

// GetArticle retrieves the JSON document of an article.
//
// The path to the article is resolved one segment at a time, so that a missing article
// reports which segment is missing.
func (s *Service) GetArticle(ctx context.Context, owner, slug string) (model.Article, error) {
	if err := s.checkOpen(); err != nil {
		return model.Article{}, err
	}

	var blob model.Blob
	err := s.store.View(func(txn *vfs.Txn) error {
		if err := requireUser(txn, owner); err != nil {
			return err
		}
		if err := model.ValidatePath(model.ArticlePath(slug)); err != nil || len(model.Segments(model.ArticlePath(slug))) != 3 {
			return status.ArticleNotFound(slug, getItemError(slug))
		}

		var (
			node    model.Node
			visited []string
		)
		for _, segment := range []string{model.ArticlesDir, slug, model.ArticleIndexFile} {
			visited = append(visited, segment)
			var err error
			node, err = txn.GetNode(owner, model.JoinPath(visited...))
			if err == vfs.ErrNotFound {
				return status.ArticleNotFound(slug, getItemError(segment))
			}
			if err != nil {
				return err
			}
		}
		if node.IsDir() {
			return status.ArticleNotFound(slug, getItemError(model.ArticleIndexFile))
		}

		var err error
		blob, err = blobOf(txn, node)
		return err
	})
	if err != nil {
		return model.Article{}, err
	}

	data, err := s.fetch(ctx, blob)
	if err != nil {
		return model.Article{}, err
	}
	if !jsoniter.Valid(data) {
		return model.Article{}, fmt.Errorf("article %q is not a valid JSON document", slug)
	}
	shortText, err := excerpt(data)
	if err != nil {
		return model.Article{}, fmt.Errorf("article %q is not a valid JSON document: %w", slug, err)
	}
	return model.Article{Slug: slug, Data: data, ShortText: shortText}, nil
}

func getItemError(segment string) error {
	return fmt.Errorf("Get item: %w", status.FileNotFound(segment)) //nolint:stylecheck
}

func requireUser(txn *vfs.Txn, owner string) error {
	_, err := txn.GetNode(owner, model.RootPath)
	if err == vfs.ErrNotFound {
		return status.UserNotFound(owner)
	}
	return err
}

func blobOf(txn *vfs.Txn, file model.Node) (model.Blob, error) {
	blob, err := txn.GetBlob(file.Hash)
	if err == vfs.ErrNotFound {
		return model.Blob{}, status.ReferenceNotFound(file.Hash)
	}
	return blob, err
}
