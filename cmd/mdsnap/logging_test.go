package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	logger, err := newLogger(&buf, "info")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("packed", "files", 2)
	assert.NotContains(buf.String(), "hidden")
	assert.Contains(buf.String(), "msg=packed files=2")

	_, err = newLogger(&buf, "loud")
	assert.ErrorContains(err, `invalid log level "loud"`)
}
