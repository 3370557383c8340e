package main

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
	"testing"

	"fasterpin/host/config"
	"fasterpin/host/mcu"
)

// fakeClient records calls as strings
type fakeClient struct {
	calls []string
	level bool
}

func (f *fakeClient) record(format string, args ...interface{}) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return nil
}

func (f *fakeClient) BindPin(oid uint8, pin int) error { return f.record("bind %d %d", oid, pin) }
func (f *fakeClient) BindPinID(oid uint8, id uint16) error { return f.record("bindid %d 0x%x", oid, id) }
func (f *fakeClient) SetMode(oid uint8, output bool) error { return f.record("mode %d %v", oid, output) }
func (f *fakeClient) Write(oid uint8, value bool) error { return f.record("write %d %v", oid, value) }
func (f *fakeClient) Toggle(oid uint8) error { return f.record("toggle %d", oid) }
func (f *fakeClient) SetPin(pin int, value bool) error { return f.record("set %d %v", pin, value) }
func (f *fakeClient) Reset() error { return f.record("reset") }

func (f *fakeClient) Query(oid uint8) (mcu.PinState, error) {
	f.record("query %d", oid)
	return mcu.PinState{OID: oid, Pin: 13, Value: f.level}, nil
}

func (f *fakeClient) GetPin(pin int) (bool, error) {
	f.record("get %d", pin)
	return f.level, nil
}

func newTestShell(t *testing.T, cfgJSON string) (*shell, *fakeClient, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.LoadConfig([]byte(cfgJSON))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	client := &fakeClient{}
	var buf bytes.Buffer
	sh := newShell(client, cfg)
	sh.out = bufio.NewWriter(&buf)
	return sh, client, &buf
}

func TestSetupNamedPins(t *testing.T) {
	sh, client, _ := newTestShell(t, `{"pins": {
		"led": {"pin": 13, "output": true},
		"button": {"pin": 2},
		"enable": {"pin": 8, "output": true, "initial": true}
	}}`)

	if err := sh.setupNamedPins(); err != nil {
		t.Fatalf("setupNamedPins failed: %v", err)
	}

	want := []string{
		"bind 0 2",
		"bind 1 8", "write 1 true", "mode 1 true",
		"bind 2 13", "write 2 false", "mode 2 true",
	}
	if strings.Join(client.calls, ";") != strings.Join(want, ";") {
		t.Errorf("Unexpected calls:\n got %v\nwant %v", client.calls, want)
	}
}

func TestShellCommands(t *testing.T) {
	sh, client, buf := newTestShell(t, `{"pins": {"led": {"pin": 13}}}`)
	if err := sh.setupNamedPins(); err != nil {
		t.Fatal(err)
	}
	client.calls = nil
	client.level = true

	lines := []string{
		"output led",
		"high led",
		"toggle 0",
		"read led",
		"bind 4 led",
		"bindid 5 0x235",
		"set 7 1",
		"get led",
		"reset",
	}
	for _, line := range lines {
		f := strings.Fields(line)
		if err := sh.run(f[0], f[1:]); err != nil {
			t.Errorf("%q failed: %v", line, err)
		}
	}

	want := []string{
		"mode 0 true", "write 0 true", "toggle 0", "query 0",
		"bind 4 13", "bindid 5 0x235", "set 7 true", "get 13", "reset",
	}
	if strings.Join(client.calls, ";") != strings.Join(want, ";") {
		t.Errorf("Unexpected calls:\n got %v\nwant %v", client.calls, want)
	}
	if !strings.Contains(buf.String(), "oid 0 pin 13 = 1") || !strings.Contains(buf.String(), "pin 13 = 1") {
		t.Errorf("Unexpected output:\n%s", buf.String())
	}
}

func TestShellErrors(t *testing.T) {
	sh, client, _ := newTestShell(t, `{}`)

	bad := [][]string{
		{"frobnicate"},
		{"high"},
		{"high", "nosuchpin"},
		{"bind", "1", "fan"},
		{"bindid", "1", "zz"},
		{"toggle", "300"},
	}
	for _, f := range bad {
		if err := sh.run(f[0], f[1:]); err == nil {
			t.Errorf("Expected error for %v", f)
		}
	}
	if len(client.calls) != 0 {
		t.Errorf("Bad commands reached the client: %v", client.calls)
	}
}
