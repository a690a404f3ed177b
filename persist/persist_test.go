package persist_test

import (
	"bytes"
	"testing"

	"github.com/dekarrin/tablegram/grammar/grammartest"
	"github.com/dekarrin/tablegram/interp"
	"github.com/dekarrin/tablegram/persist"
	"github.com/stretchr/testify/assert"
)

func sampleTree() interp.RuleValue {
	inner := interp.RuleValue{
		Rule:    grammartest.RuleTerm,
		MatchID: 5,
		Values:  []interp.Value{interp.TokenValue(grammartest.TokNum)},
	}

	return interp.RuleValue{
		Rule:    grammartest.RuleS,
		MatchID: 1,
		Values: []interp.Value{
			interp.TokenValue(grammartest.TokStart),
			interp.RuleValueOf(inner),
			interp.TokenValue(grammartest.TokEof),
		},
	}
}

func Test_EncodeDecode_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	rv := sampleTree()

	data := persist.Encode(rv)
	assert.NotEmpty(data)

	got, err := persist.Decode(data)
	if !assert.NoError(err) {
		t.FailNow()
	}

	assert.Equal(rv, got)
}

func Test_Decode_RejectsTruncatedData(t *testing.T) {
	assert := assert.New(t)

	data := persist.Encode(sampleTree())

	_, err := persist.Decode(data[:len(data)-1])
	assert.Error(err)
}

func Test_SaveLoad_RoundTripsThroughAWriterAndReader(t *testing.T) {
	assert := assert.New(t)

	rv := sampleTree()

	var buf bytes.Buffer
	if !assert.NoError(persist.Save(&buf, rv)) {
		t.FailNow()
	}

	got, err := persist.Load(&buf)
	if !assert.NoError(err) {
		t.FailNow()
	}

	assert.Equal(rv, got)
}
