package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	typed := NewBookingError(CodeRoomNotAvailable, "room taken")

	assert.Equal(t, CodeRoomNotAvailable, CodeOf(typed))
	assert.Equal(t, CodeRoomNotAvailable, CodeOf(fmt.Errorf("placing booking: %w", typed)))
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("disk on fire")))
	assert.Equal(t, CodeUnknown, CodeOf(nil))
}

func TestBookingError_Message(t *testing.T) {
	err := NewBookingError(CodeUnauthorized, "not the owner")
	assert.Equal(t, "not the owner", err.Error())
}
