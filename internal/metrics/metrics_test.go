package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGetIsSingleton(t *testing.T) {
	assert.Same(t, Get(), Get())
}

func TestRecordMutation(t *testing.T) {
	ok := Get().MutationsTotal.WithLabelValues("missions", "toggle", "ok")
	failed := Get().MutationsTotal.WithLabelValues("missions", "toggle", "error")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordMutation("missions", "toggle", nil)
	RecordMutation("missions", "toggle", errors.New("boom"))
	RecordMutation("missions", "toggle", nil)

	assert.InDelta(t, okBefore+2, testutil.ToFloat64(ok), 0)
	assert.InDelta(t, failedBefore+1, testutil.ToFloat64(failed), 0)
}
