package apperror_test

import (
	"errors"
	"fmt"
	"testing"

	"strife/backend/internal/apperror"

	"github.com/stretchr/testify/assert"
)

type staticMessage string

func (m staticMessage) GetMessage() string { return string(m) }

func TestConstructorsKeepMessage(t *testing.T) {
	messages := []string{"conversation 42 not found", "x", "ünïcödé message", "  padded  "}

	for _, m := range messages {
		t.Run(m, func(t *testing.T) {
			nf := apperror.ResourceNotFound(m)
			assert.Equal(t, m, nf.Error())
			assert.Equal(t, m, nf.GetMessage())
			assert.Equal(t, apperror.KindResourceNotFound, nf.Kind())

			ua := apperror.UnauthorizedAction(m)
			assert.Equal(t, m, ua.Error())
			assert.Equal(t, apperror.KindUnauthorizedAction, ua.Kind())
		})
	}
}

func TestConstructorsFromMessageSource(t *testing.T) {
	src := staticMessage("you are not a participant")

	assert.Equal(t, "you are not a participant", apperror.UnauthorizedActionFrom(src).Error())
	assert.Equal(t, "you are not a participant", apperror.ResourceNotFoundFrom(src).Error())
}

func TestConstructorsFromAnotherError(t *testing.T) {
	orig := apperror.ResourceNotFound("user missing")

	converted := apperror.UnauthorizedActionFrom(orig)

	assert.Equal(t, "user missing", converted.Error())
	assert.True(t, errors.Is(converted, apperror.ErrUnauthorizedAction))
	assert.False(t, errors.Is(converted, apperror.ErrResourceNotFound))
}

func TestConstructorsFromNilSource(t *testing.T) {
	assert.Equal(t, "", apperror.ResourceNotFoundFrom(nil).Error())
}

func TestIsMatchesByKind(t *testing.T) {
	wrapped := fmt.Errorf("load chat: %w", apperror.ResourceNotFound("chat abc not found"))

	assert.True(t, errors.Is(wrapped, apperror.ErrResourceNotFound))
	assert.False(t, errors.Is(wrapped, apperror.ErrUnauthorizedAction))
	assert.False(t, errors.Is(errors.New("plain"), apperror.ErrResourceNotFound))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperror.Kind
	}{
		{"unauthorized", apperror.UnauthorizedAction("no"), apperror.KindUnauthorizedAction},
		{"not found wrapped", fmt.Errorf("ctx: %w", apperror.ResourceNotFound("gone")), apperror.KindResourceNotFound},
		{"plain error", errors.New("boom"), apperror.KindUnknown},
		{"nil", nil, apperror.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperror.KindOf(tt.err))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "unauthorized_action", apperror.KindUnauthorizedAction.String())
	assert.Equal(t, "resource_not_found", apperror.KindResourceNotFound.String())
	assert.Equal(t, "unknown", apperror.KindUnknown.String())
}
