package console

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func TestDebugfOnlyWhenVerbose(t *testing.T) {
	var out, errOut bytes.Buffer
	c := NewWithWriters(false, &out, &errOut)
	c.Debugf("hidden %d", 1)
	assert.Empty(t, out.String())

	c.Verbose = true
	c.Debugf("shown %d", 2)
	assert.Equal(t, "shown 2\n", out.String())
}

func TestFailfGoesToErrorWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	c := NewWithWriters(false, &out, &errOut)
	c.Failf("verification failed: %s", "timeout")
	c.OKf("done")
	assert.Equal(t, "✗ verification failed: timeout\n", errOut.String())
	assert.Equal(t, "✓ done\n", out.String())
}

func TestWithPrefix(t *testing.T) {
	var out bytes.Buffer
	c := NewWithWriters(false, &out, &out)
	l := WithPrefix(c, "[mock] ")
	l.Printf("delay %dms", 500)
	l.Println("enabled")
	assert.Equal(t, "[mock] delay 500ms\n[mock]  enabled\n", out.String())
}

type recordingLogger struct{ lines []string }

func (r *recordingLogger) Println(args ...interface{}) {}
func (r *recordingLogger) Printf(message string, args ...interface{}) {
	r.lines = append(r.lines, message)
}

func TestWarnFallsBackToPrintf(t *testing.T) {
	r := &recordingLogger{}
	Warn(r, "careful")
	assert.Equal(t, []string{"WARN: careful"}, r.lines)

	var out bytes.Buffer
	c := NewWithWriters(false, &out, &out)
	Warn(c, "careful %s", "now")
	assert.Equal(t, "careful now\n", out.String())
}
