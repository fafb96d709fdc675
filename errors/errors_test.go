package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	fserrors "github.com/abustany/flatfs/errors"
)

func TestNewCarriesTheDefaultMessage(t *testing.T) {
	err := fserrors.New(fserrors.CodeNotMounted)

	assert.Equal(t, fserrors.CodeNotMounted, err.Code())
	assert.Equal(t, "volume is not mounted", err.Error())
}

func TestNewWithMessageAppendsDetail(t *testing.T) {
	err := fserrors.NewWithMessage(fserrors.CodeInvalidArgument, "offset maps past the last block slot")

	assert.Equal(t, fserrors.CodeInvalidArgument, err.Code())
	assert.Contains(t, err.Error(), "invalid argument")
	assert.Contains(t, err.Error(), "offset maps past the last block slot")
}

func TestWithMessageLeavesTheCodeUnchanged(t *testing.T) {
	base := fserrors.New(fserrors.CodeNoSpace)
	wrapped := base.WithMessage("no free inodes left")

	assert.Equal(t, fserrors.CodeNoSpace, wrapped.Code())
	assert.Contains(t, wrapped.Error(), "no free inodes left")
}

func TestWrapErrorPreservesTheOriginalForUnwrap(t *testing.T) {
	cause := errors.New("short write")
	wrapped := fserrors.New(fserrors.CodeIO).WrapError(cause)

	assert.Equal(t, fserrors.CodeIO, wrapped.Code())
	assert.Contains(t, wrapped.Error(), "short write")
	assert.ErrorIs(t, wrapped, cause)
}

func TestUnknownCodeStillProducesAMessage(t *testing.T) {
	err := fserrors.New(fserrors.Code(999))
	assert.Equal(t, "unknown error", err.Error())
}
