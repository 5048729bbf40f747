package filestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnder(t *testing.T) {
	assert.True(t, Under("error/ABC-1.jpg", "error"))
	assert.True(t, Under("/notfound/x/y.png", "notfound/"))
	assert.True(t, Under("error", "error"))
	assert.False(t, Under("errors/ABC-1.jpg", "error"))
	assert.False(t, Under("ABC-1.jpg", ""))
}

func TestRel(t *testing.T) {
	assert.Equal(t, "ABC-1.jpg", Rel("/uploads", "/uploads/ABC-1.jpg"))
	assert.Equal(t, "sub/ABC-1.jpg", Rel("/uploads/", "/uploads/sub/ABC-1.jpg"))
	assert.Equal(t, "ABC-1.jpg", Rel("/", "/ABC-1.jpg"))
	assert.Equal(t, "", Rel("/uploads", "/uploads"))
}
