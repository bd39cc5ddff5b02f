package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// recordingRule notes whether it ran and fails on demand.
type recordingRule struct {
	name string
	err  error
	ran  *[]string
}

func (r *recordingRule) Validate(_ context.Context, _ Candidate) error {
	*r.ran = append(*r.ran, r.name)
	return r.err
}

func TestEngine_RunsRulesInOrder(t *testing.T) {
	var ran []string
	engine := NewEngine(
		&recordingRule{name: "first", ran: &ran},
		&recordingRule{name: "second", ran: &ran},
		&recordingRule{name: "third", ran: &ran},
	)

	err := engine.Process(context.Background(), Candidate{})

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, ran)
}

func TestEngine_FirstFailureAborts(t *testing.T) {
	var ran []string
	boom := model.NewBookingError(model.CodeBadRequest, "boom")
	engine := NewEngine(
		&recordingRule{name: "first", ran: &ran},
		&recordingRule{name: "second", err: boom, ran: &ran},
		&recordingRule{name: "third", ran: &ran},
	)

	err := engine.Process(context.Background(), Candidate{})

	// The failing rule's error comes back unchanged and later rules
	// never run.
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "second"}, ran)
}

func TestEngine_NoRules(t *testing.T) {
	engine := NewEngine()
	assert.NoError(t, engine.Process(context.Background(), Candidate{}))
}
