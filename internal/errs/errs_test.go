package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"config", Config("missing %s", "user"), ErrConfig},
		{"data", Data("no title"), ErrData},
		{"io", IO("%s does not exist", "/tmp/x"), ErrIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.kind)
		})
	}
}

func TestStatusCode(t *testing.T) {
	apiErr := &APIError{Op: "list documents", URL: "http://x/collections/1/list", StatusCode: 403, Body: "forbidden"}
	err := fmt.Errorf("%w: %w", ErrAuth, apiErr)

	assert.Equal(t, 403, StatusCode(err))
	assert.True(t, errors.Is(err, ErrAuth))
	assert.Contains(t, err.Error(), "status 403")
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
}
