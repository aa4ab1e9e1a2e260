package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracerDisabledKeepsGlobal(t *testing.T) {
	tracer, closer, err := InitTracer(Config{Enabled: false})
	require.NoError(t, err)
	assert.Equal(t, opentracing.GlobalTracer(), tracer)
	closer()
}

func TestFailTagsSpan(t *testing.T) {
	mt := mocktracer.New()
	prev := opentracing.GlobalTracer()
	opentracing.SetGlobalTracer(mt)
	t.Cleanup(func() { opentracing.SetGlobalTracer(prev) })

	span, _ := StartSpan(context.Background(), "cycle")
	Fail(span, errors.New("boom"))
	Fail(span, nil)
	span.Finish()

	finished := mt.FinishedSpans()
	require.Len(t, finished, 1)
	assert.Equal(t, "cycle", finished[0].OperationName)
	assert.Equal(t, true, finished[0].Tag("error"))
	assert.Equal(t, "boom", finished[0].Tag("error.message"))
}
