package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatching(t *testing.T) {
	t.Run("wrapped sentinel matches", func(t *testing.T) {
		err := fmt.Errorf("removing branch: %w", ErrCannotRemoveCurrent)
		assert.ErrorIs(t, err, ErrCannotRemoveCurrent)
		assert.False(t, stderrors.Is(err, ErrNoSuchBranch))
	})

	t.Run("same code with different message matches", func(t *testing.T) {
		assert.ErrorIs(t, ErrNoSuchBranchCheckout, ErrNoSuchBranch)
		assert.NotEqual(t, ErrNoSuchBranch.Error(), ErrNoSuchBranchCheckout.Error())
	})

	t.Run("not found carries cause", func(t *testing.T) {
		cause := stderrors.New("disk gone")
		err := NotFound("reading object abc", cause)
		assert.ErrorIs(t, err, ErrObjectNotFound)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "reading object abc: disk gone", err.Error())
	})
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "domain", err: ErrNothingStaged, want: true},
		{name: "user input", err: ErrIncorrectOperand, want: true},
		{name: "wrapped domain", err: fmt.Errorf("commit: %w", ErrEmptyMessage), want: true},
		{name: "not found", err: NotFound("missing", nil), want: false},
		{name: "plain", err: stderrors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUserFacing(tt.err))
		})
	}
}
