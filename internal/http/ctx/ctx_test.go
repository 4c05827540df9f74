package ctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func TestContextIgnoresServerShutdown(t *testing.T) {
	var req fasthttp.Request
	rc := &fasthttp.RequestCtx{}
	rc.Init(&req, nil, nil)
	rc.SetUserValue("k", "v")

	c := Context(rc)
	assert.Nil(t, c.Done())
	assert.NoError(t, c.Err())
	assert.Equal(t, "v", c.Value("k"))
}
