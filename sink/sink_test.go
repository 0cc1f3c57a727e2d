package sink

import (
	"os"
	"testing"
)

func TestFileWriteInt16RoundTrips(t *testing.T) {
	path := t.TempDir() + "/out.iq16"
	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	samples := []int16{100, -200, 32000, -32000}
	n, err := f.WriteInt16(samples)
	if err != nil {
		t.Fatalf("WriteInt16: %v", err)
	}
	if n != len(samples) {
		t.Fatalf("WriteInt16 returned %d, want %d", n, len(samples))
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) != len(samples)*2 {
		t.Fatalf("file has %d bytes, want %d", len(data), len(samples)*2)
	}
	for i, want := range samples {
		got := int16(uint16(data[i*2]) | uint16(data[i*2+1])<<8)
		if got != want {
			t.Fatalf("sample %d read back as %d, want %d", i, got, want)
		}
	}
}

func TestFileWriteInt8(t *testing.T) {
	path := t.TempDir() + "/out.iq8"
	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	defer f.Close()

	samples := []int8{1, -1, 127, -128}
	n, err := f.WriteInt8(samples)
	if err != nil {
		t.Fatalf("WriteInt8: %v", err)
	}
	if n != len(samples) {
		t.Fatalf("WriteInt8 returned %d, want %d", n, len(samples))
	}
}

func TestFL2KReturnsDeviceError(t *testing.T) {
	if _, err := NewFL2K(); err == nil {
		t.Fatalf("NewFL2K should report it is unimplemented")
	}
}
