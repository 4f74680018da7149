package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	errMissing := New(KindNotFound, "record not found", "GetRecord")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"direct", errMissing, KindNotFound},
		{"wrapped", fmt.Errorf("load: %w", errMissing), KindNotFound},
		{"plain error", errors.New("boom"), KindInternal},
		{"nil", nil, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestSentinelIdentity(t *testing.T) {
	errA := New(KindConflict, "duplicate", "Submit")
	errB := New(KindConflict, "duplicate", "Submit")

	wrapped := fmt.Errorf("submit: %w", errA)
	assert.ErrorIs(t, wrapped, errA)
	assert.NotErrorIs(t, wrapped, errB)
	assert.Equal(t, "duplicate", MessageOf(wrapped))
	assert.Equal(t, "conflict", KindOf(wrapped).String())
}
