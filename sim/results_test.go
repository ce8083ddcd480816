package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResults_MeanLatency_ZeroWhenEmpty(t *testing.T) {
	r := NewResults()
	assert.Zero(t, r.MeanLatency())
}

func TestResults_MeanLatency_ComputesAverage(t *testing.T) {
	r := NewResults()
	r.RecordLatency(10)
	r.RecordLatency(20)
	r.RecordLatency(30)
	assert.Equal(t, 20.0, r.MeanLatency())
}

func TestResults_LossRate_ZeroWhenNothingSent(t *testing.T) {
	r := NewResults()
	assert.Zero(t, r.LossRate())
}

func TestResults_LossRate_ComputesFraction(t *testing.T) {
	r := NewResults()
	for i := 0; i < 10; i++ {
		r.RecordSent()
	}
	r.RecordLoss()
	r.RecordLoss()
	assert.Equal(t, 0.2, r.LossRate())
}

func TestResults_RecordLatency_IncrementsTotalReceived(t *testing.T) {
	r := NewResults()
	r.RecordLatency(5)
	r.RecordLatency(7)
	assert.Equal(t, 2, r.TotalReceived)
}
