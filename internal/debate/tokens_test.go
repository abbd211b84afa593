package debate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abc"))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 2, EstimateTokens("abcde"))
	assert.Equal(t, 25, EstimateTokens(string(make([]byte, 100))))
}

func TestAccountant_RecordAccumulates(t *testing.T) {
	a := NewAccountant(Pricing{InputPerMTok: 3, OutputPerMTok: 15})

	a.Record("alice", "12345678", "1234") // 2 in, 1 out
	a.Record("alice", "1234", "12345678") // 1 in, 2 out

	u := a.Usage()["alice"]
	assert.Equal(t, 2, u.Calls)
	assert.Equal(t, 3, u.InputTokens)
	assert.Equal(t, 3, u.OutputTokens)
	assert.InDelta(t, 3*3.0/1e6+3*15.0/1e6, u.Cost, 1e-12)
}

func TestAccountant_TotalsSumParticipants(t *testing.T) {
	a := NewAccountant(Pricing{})
	a.Record("alice", "1234", "1234")
	a.Record("bob", "12345678", "")

	total := a.Totals()
	assert.Equal(t, 2, total.Calls)
	assert.Equal(t, 3, total.InputTokens)
	assert.Equal(t, 1, total.OutputTokens)
}

func TestAccountant_TotalsMonotonic(t *testing.T) {
	a := NewAccountant(Pricing{InputPerMTok: 1, OutputPerMTok: 1})

	prev := a.Totals()
	for i := 0; i < 10; i++ {
		a.Record("alice", "some input text", "some output text")
		cur := a.Totals()
		assert.GreaterOrEqual(t, cur.InputTokens, prev.InputTokens)
		assert.GreaterOrEqual(t, cur.OutputTokens, prev.OutputTokens)
		assert.GreaterOrEqual(t, cur.Cost, prev.Cost)
		prev = cur
	}
}

func TestAccountant_Reset(t *testing.T) {
	a := NewAccountant(Pricing{})
	a.Record("alice", "input", "output")
	a.Reset()
	assert.Empty(t, a.Usage())
	assert.Equal(t, Usage{}, a.Totals())
}
