package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	Logf("loaded %d records", 12)

	if got != "loaded 12 records" {
		t.Errorf("custom logger received %q", got)
	}
}

func TestSetLogger_Nil(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(string, ...interface{}) { called = true })
	SetLogger(nil)
	Logf("muted")

	if called {
		t.Error("no-op logger should not call the previous logger")
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf should not be nil by default")
	}
}

func TestStagef(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	Stagef("frames", "built %d frames", 3)

	if got != "[frames] built 3 frames" {
		t.Errorf("Stagef produced %q", got)
	}
}
