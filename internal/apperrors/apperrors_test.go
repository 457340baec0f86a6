package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	cause := errors.New("boom")

	assert.Equal(t, "PARSING_ERROR: Could not read the pasted content.: boom", Parsing(cause).Error())
	assert.Equal(t, "NOT_FOUND: Link 3 not found.", NotFound("Link 3").Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("extract: %w", Parsing(cause))

	assert.ErrorIs(t, err, cause)
	assert.Nil(t, ContentTooLarge(10, 5).Unwrap())
}

func TestIs(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", TooManyURLs(20, 10))

	assert.True(t, Is(wrapped, TypeTooManyURLs))
	assert.False(t, Is(wrapped, TypeParsing))
	assert.False(t, Is(errors.New("plain"), TypeParsing))
	assert.False(t, Is(nil, TypeParsing))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"foreign error", errors.New("disk on fire"), "An unexpected error occurred. Please try again."},
		{"parsing", Parsing(errors.New("x")), "Could not read the pasted content. Try again or paste different content."},
		{"too large", ContentTooLarge(2000, 1000), "Content is too large to process (2000 bytes, limit 1000). Please try with smaller content."},
		{"too many", TooManyURLs(11, 10), "Too many URLs found (11, limit 10). Please try with content containing fewer URLs."},
		{"not found is final", NotFound("Link 9"), "Link 9 not found."},
		{"network", Network(errors.New("timeout")), "Network request failed. Check your connection and try again."},
		{"internal", fmt.Errorf("wrap: %w", Internal(errors.New("badger"))), "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
