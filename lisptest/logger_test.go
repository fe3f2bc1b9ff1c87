// Copyright © 2018 The ELPS authors

package lisptest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingTB struct {
	testing.TB
	lines []string
}

func (r *recordingTB) Log(args ...any) {
	r.lines = append(r.lines, fmt.Sprint(args...))
}

func TestLoggerSplitsLines(t *testing.T) {
	rec := &recordingTB{TB: t}
	logger := NewLogger(rec)
	n, err := logger.Write([]byte("one\ntwo\nthr"))
	assert.NoError(t, err)
	assert.Equal(t, 11, n)
	assert.Equal(t, []string{"one", "two"}, rec.lines)

	_, _ = logger.Write([]byte("ee\n"))
	assert.Equal(t, []string{"one", "two", "three"}, rec.lines)

	_, _ = logger.Write([]byte("partial"))
	logger.Flush()
	assert.Equal(t, []string{"one", "two", "three", "partial"}, rec.lines)
	logger.Flush()
	assert.Len(t, rec.lines, 4)
}
