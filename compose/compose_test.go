package compose

import (
	"testing"

	"hacktv/frame"
	"hacktv/mode"
	"hacktv/rational"
)

func TestComposerProducesSamplesPerLine(t *testing.T) {
	d, ok := mode.Get("pal-i")
	if !ok {
		t.Fatal("pal-i mode not registered")
	}
	resolved := d.Resolve(rational.New(20250000, 1))

	c := New(resolved)
	c.FetchFrame = func() *frame.Buffer {
		return frame.NewBuffer(720, 576)
	}

	out := make([]float64, resolved.SamplesPerLine*3)
	n := c.Read(out)
	if n != len(out) {
		t.Fatalf("Read returned %d samples, want %d", n, len(out))
	}
}

func TestComposerAdvancesThroughFields(t *testing.T) {
	d, _ := mode.Get("pal-i")
	resolved := d.Resolve(rational.New(20250000, 1))
	c := New(resolved)
	c.FetchFrame = func() *frame.Buffer { return frame.NewBuffer(720, 576) }

	totalLines := resolved.LinesPerFrame
	out := make([]float64, resolved.SamplesPerLine)
	for i := 0; i < totalLines+1; i++ {
		c.Read(out)
	}
	if c.field != 0 && c.field != 1 {
		t.Fatalf("field index out of expected range: %d", c.field)
	}
}

func TestClassifyDistinguishesSyncFromActive(t *testing.T) {
	d, _ := mode.Get("pal-i")
	resolved := d.Resolve(rational.New(20250000, 1))
	c := New(resolved)

	c.line = 0
	if k := c.classify(); k != LineVSyncBroad {
		t.Fatalf("line 0 classified as %v, want LineVSyncBroad", k)
	}

	linesPerField := resolved.LinesPerFrame / resolved.FieldsPerFrame
	c.line = linesPerField - 1
	if k := c.classify(); k != LineNormal {
		t.Fatalf("last line of field classified as %v, want LineNormal", k)
	}
}
