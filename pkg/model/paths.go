package model

import (
	"fmt"
	"strings"
)

const (
	// RootPath is the root of every namespace
	RootPath = "/"

	// ArticlesDir holds one directory per article
	ArticlesDir = "articles"

	// ArticleIndexFile is the JSON document of an article, in the article's directory
	ArticleIndexFile = "index-json"

	separator = "/"
)

// ValidatePath checks that a path is absolute, clean and usable as a key.
//
// The root path "/" is valid.
func ValidatePath(pth string) error {
	if !strings.HasPrefix(pth, separator) {
		return fmt.Errorf("path %q is not absolute", pth)
	}
	if pth == RootPath {
		return nil
	}
	if strings.HasSuffix(pth, separator) {
		return fmt.Errorf("path %q has a trailing separator", pth)
	}
	if strings.ContainsRune(pth, 0) {
		return fmt.Errorf("path %q contains a NUL byte", pth)
	}
	for _, segment := range strings.Split(pth[1:], separator) {
		switch segment {
		case "":
			return fmt.Errorf("path %q has an empty segment", pth)
		case ".", "..":
			return fmt.Errorf("path %q has a relative segment", pth)
		}
	}
	return nil
}

// ParentPath of a valid path. The parent of the root is the root.
func ParentPath(pth string) string {
	i := strings.LastIndex(pth, separator)
	if i <= 0 {
		return RootPath
	}
	return pth[:i]
}

// Base returns the last segment of a path, or "/" for the root
func Base(pth string) string {
	if pth == RootPath {
		return RootPath
	}
	return pth[strings.LastIndex(pth, separator)+1:]
}

// Segments of a path, from the root down. The root has no segment.
func Segments(pth string) []string {
	trimmed := strings.Trim(pth, separator)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, separator)
}

// JoinPath builds an absolute path from segments
func JoinPath(segments ...string) string {
	return separator + strings.Join(segments, separator)
}

// ArticlePath is the path to the index file of an article
func ArticlePath(slug string) string {
	return JoinPath(ArticlesDir, slug, ArticleIndexFile)
}
