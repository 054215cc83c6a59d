package debug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetOutput(t *testing.T) {
	t.Cleanup(func() { Init(false) })

	var buf bytes.Buffer
	SetOutput(&buf, true, false)
	assert.True(t, Enabled())

	Debug("statement", "sql", "select 1")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), `sql="select 1"`)

	buf.Reset()
	SetOutput(&buf, false, false)
	Error("dropped")
	assert.Empty(t, buf.String())
}

func TestSetOutputJSON(t *testing.T) {
	t.Cleanup(func() { Init(false) })

	var buf bytes.Buffer
	SetOutput(&buf, true, true)
	With("component", "executor").Info("ran")
	assert.Contains(t, buf.String(), `"component":"executor"`)
	assert.Contains(t, buf.String(), `"msg":"ran"`)
}
