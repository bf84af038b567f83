package status

import (
	"fmt"
	"testing"

	"github.com/fairjournal/journalfs/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestMessages(t *testing.T) {
	hash := "0000000000000000000000000000000000000000000000000000000000000000"
	err := ReferenceNotFound(hash)
	assert.Equal(t, `Reference "`+hash+`" not found`, err.Error())
	assert.True(t, errors.Is(err, ErrReferenceNotFound))

	err = UserNotFound(hash)
	assert.Equal(t, `User not found: "`+hash+`"`, err.Error())
	assert.True(t, errors.Is(err, ErrUserNotFound))

	cause := fmt.Errorf("Get item: %w", FileNotFound("articles"))
	err = ArticleNotFound("non-existent-article", cause)
	assert.Equal(t, `Article not found: "non-existent-article". Get item: file not found: "articles"`, err.Error())
	assert.True(t, errors.Is(err, ErrArticleNotFound))
	assert.True(t, errors.Is(err, ErrFileNotFound), "the missing segment must remain in the chain")
	assert.False(t, errors.Is(err, ErrUserNotFound))

	assert.Equal(t, `Article not found: "x"`, ArticleNotFound("x", nil).Error())

	backend := StorageBackend(fmt.Errorf("connection reset"))
	assert.True(t, errors.Is(backend, ErrStorageBackend))
	assert.Contains(t, backend.Error(), "connection reset")

	assert.Equal(t, "File too large", ErrFileTooLarge.Error())
}
