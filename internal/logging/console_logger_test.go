package logging

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLogger_InfoGoesToStdout(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewConsoleLoggerTo(false, &out, &errOut)

	l.Info("loaded %d rows", 42)

	assert.Equal(t, "loaded 42 rows\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestConsoleLogger_VerboseSuppressedByDefault(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewConsoleLoggerTo(false, &out, &errOut)

	l.Verbose("connecting to %s", "localhost")

	assert.Empty(t, errOut.String())
}

func TestConsoleLogger_VerboseEnabled(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewConsoleLoggerTo(true, &out, &errOut)

	l.Verbose("connecting to %s", "localhost")
	l.Error("load failed")

	assert.Contains(t, errOut.String(), "[VERBOSE] connecting to localhost\n")
	assert.Contains(t, errOut.String(), "[ERROR] load failed\n")
	assert.Empty(t, out.String())
}

func TestConsoleLogger_NoArgsLiteralPercent(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewConsoleLoggerTo(false, &out, &errOut)

	// Messages without args must not be reinterpreted as format strings.
	l.Info("progress 100%")

	assert.Equal(t, "progress 100%\n", out.String())
}

func TestConsoleLogger_ConcurrentUse(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewConsoleLoggerTo(true, &out, &errOut)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Info("line")
			l.Verbose("line")
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, bytes.Count(out.Bytes(), []byte("line\n")))
}
