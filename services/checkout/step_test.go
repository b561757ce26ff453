package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepNames(t *testing.T) {
	assert.Equal(t, "delivery", StepDelivery.String())
	assert.Equal(t, "payment", StepPayment.String())
	assert.Equal(t, "review", StepReview.String())
	assert.Equal(t, "confirmed", StepConfirmed.String())

	step, ok := StepFromName("review")
	assert.True(t, ok)
	assert.Equal(t, StepReview, step)

	_, ok = StepFromName("confirmed")
	assert.False(t, ok)

	_, ok = StepFromName("bogus")
	assert.False(t, ok)
}

func TestStepOrdering(t *testing.T) {
	next, ok := StepDelivery.next()
	assert.True(t, ok)
	assert.Equal(t, StepPayment, next)

	next, ok = StepPayment.next()
	assert.True(t, ok)
	assert.Equal(t, StepReview, next)

	_, ok = StepReview.next()
	assert.False(t, ok)

	_, ok = StepConfirmed.next()
	assert.False(t, ok)

	previous, ok := StepReview.previous()
	assert.True(t, ok)
	assert.Equal(t, StepPayment, previous)

	_, ok = StepDelivery.previous()
	assert.False(t, ok)
}

func TestStepJumps(t *testing.T) {
	assert.True(t, StepReview.canJumpTo(StepDelivery))
	assert.True(t, StepDelivery.canJumpTo(StepReview))
	assert.False(t, StepPayment.canJumpTo(StepConfirmed))
	assert.False(t, StepConfirmed.canJumpTo(StepDelivery))
}
