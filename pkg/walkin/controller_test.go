// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package walkin

import (
	"strings"
	"testing"
	"time"

	"github.com/Thermoquad/frigostat/pkg/sck"
	"github.com/Thermoquad/frigostat/pkg/uart"
)

// defaultStatusLine is the full factory-state status publication. Tests pin
// the exact rendering because the de-duplication cache compares whole lines.
const defaultStatusLine = "STATUS dimensions_ft.length=10, dimensions_ft.width=10, dimensions_ft.height=10, " +
	"volume_ft3=1000, " +
	"config.target_temp_c=2, config.hysteresis_c=1, config.compressor_min_off_s=120, " +
	"config.defrost_interval_s=21600, config.defrost_duration_s=1200, " +
	"io.air_temp_c=8, io.door_open=0, io.power_ok=1, io.motion_detected=0, " +
	"io.panic_button_pressed=0, io.compressor_on=0, io.panic_alarm_on=0"

type testClock struct {
	t time.Time
}

func (tc *testClock) now() time.Time {
	return tc.t
}

func (tc *testClock) advance(d time.Duration) {
	tc.t = tc.t.Add(d)
}

func newTestController() (*Controller, *uart.Queue, *uart.Queue) {
	monitor := uart.NewQueue()
	io := uart.NewQueue()
	return NewController(monitor, io), monitor, io
}

// newClockedController pins the controller to a fake clock with the
// compressor-off timestamp an hour in the past, so the minimum-off timer
// does not interfere unless a test advances less than that.
func newClockedController() (*Controller, *uart.Queue, *uart.Queue, *testClock) {
	c, monitor, io := newTestController()
	clk := &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	c.now = clk.now
	c.lastCompressorOff = clk.t.Add(-time.Hour)
	return c, monitor, io, clk
}

// ============================================================
// Status Publication Tests
// ============================================================

func TestStep_PublishesFactoryStatusOnce(t *testing.T) {
	c, monitor, _ := newTestController()
	c.Step()

	lines := monitor.DrainTX()
	if len(lines) != 1 {
		t.Fatalf("first step published %d lines, want 1: %v", len(lines), lines)
	}
	if lines[0] != defaultStatusLine {
		t.Errorf("status line mismatch:\n got %q\nwant %q", lines[0], defaultStatusLine)
	}
}

func TestStep_DeduplicatesUnchangedStatus(t *testing.T) {
	c, monitor, _ := newTestController()
	c.Step()
	c.Step()

	lines := monitor.DrainTX()
	if len(lines) != 1 {
		t.Errorf("two idle steps published %d lines, want 1: %v", len(lines), lines)
	}
}

func TestStep_RepublishesWhenStateChanges(t *testing.T) {
	c, monitor, io := newTestController()
	c.Step()
	monitor.DrainTX()

	io.InjectRX("SET_INPUT door_open=1")
	c.Step()

	lines := monitor.DrainTX()
	if len(lines) != 1 {
		t.Fatalf("state change published %d monitor lines, want 1: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "io.door_open=1") {
		t.Errorf("republished status does not reflect change: %q", lines[0])
	}
}

func TestStep_ExplicitGetStatusBypassesCache(t *testing.T) {
	c, monitor, _ := newTestController()

	monitor.InjectRX("GET STATUS")
	c.Step()
	first := monitor.DrainTX()
	if len(first) != 2 {
		t.Fatalf("first step wrote %d lines, want reply + publication: %v", len(first), first)
	}
	if first[0] != first[1] || first[0] != defaultStatusLine {
		t.Errorf("reply and publication should both carry %q, got %v", defaultStatusLine, first)
	}

	// Unchanged state: the explicit request still replies, publication is
	// suppressed by the cache.
	monitor.InjectRX("GET STATUS")
	c.Step()
	second := monitor.DrainTX()
	if len(second) != 1 || second[0] != defaultStatusLine {
		t.Errorf("second GET STATUS wrote %v, want single cached-identical reply", second)
	}
}

// ============================================================
// Monitor Channel Text Dispatch Tests
// ============================================================

func TestMonitorText_SetConfig(t *testing.T) {
	c, monitor, _ := newTestController()
	monitor.InjectRX("SET target_temp_c=3.5")
	c.Step()

	lines := monitor.DrainTX()
	if len(lines) == 0 || lines[0] != "ACK target_temp_c=3.5" {
		t.Errorf("reply = %v, want ACK target_temp_c=3.5 first", lines)
	}
	if c.Config().TargetTempC != 3.5 {
		t.Errorf("TargetTempC = %v, want 3.5", c.Config().TargetTempC)
	}
}

func TestMonitorText_SetIntegerField(t *testing.T) {
	c, monitor, _ := newTestController()
	monitor.InjectRX("SET compressor_min_off_s=60")
	c.Step()

	lines := monitor.DrainTX()
	if len(lines) == 0 || lines[0] != "ACK compressor_min_off_s=60" {
		t.Errorf("reply = %v, want ACK compressor_min_off_s=60 first", lines)
	}
	if c.Config().CompressorMinOffS != 60 {
		t.Errorf("CompressorMinOffS = %d, want 60", c.Config().CompressorMinOffS)
	}
}

func TestMonitorText_SetEchoesCanonicalValue(t *testing.T) {
	c, monitor, _ := newTestController()
	monitor.InjectRX("SET target_temp_c=4")
	c.Step()

	lines := monitor.DrainTX()
	if len(lines) == 0 || lines[0] != "ACK target_temp_c=4" {
		t.Errorf("reply = %v, want canonical ACK target_temp_c=4", lines)
	}
}

func TestMonitorText_ErrorReplies(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"unknown config key", "SET venting=1", "ERR unknown_config:venting"},
		{"unparseable value", "SET target_temp_c=warm", "ERR bad_value:target_temp_c"},
		{"SET without equals", "SET target_temp_c", "ERR unknown_command:SET target_temp_c"},
		{"unknown verb", "OPEN DOOR", "ERR unknown_command:OPEN DOOR"},
		{"io verb on monitor channel", "GET IO", "ERR unknown_command:GET IO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, monitor, _ := newTestController()
			monitor.InjectRX(tt.line)
			c.Step()

			lines := monitor.DrainTX()
			if len(lines) == 0 || lines[0] != tt.want {
				t.Errorf("reply = %v, want %q first", lines, tt.want)
			}
		})
	}
}

func TestMonitorText_BadValueLeavesConfigUnchanged(t *testing.T) {
	c, monitor, _ := newTestController()
	monitor.InjectRX("SET target_temp_c=warm")
	c.Step()

	if c.Config().TargetTempC != 2.0 {
		t.Errorf("rejected value mutated config: TargetTempC = %v", c.Config().TargetTempC)
	}
}

func TestMonitorText_GetConfig(t *testing.T) {
	c, monitor, _ := newTestController()
	monitor.InjectRX("GET CONFIG")
	c.Step()

	want := "CONFIG target_temp_c=2, hysteresis_c=1, compressor_min_off_s=120, " +
		"defrost_interval_s=21600, defrost_duration_s=1200"
	lines := monitor.DrainTX()
	if len(lines) == 0 || lines[0] != want {
		t.Errorf("reply = %v\nwant first line %q", lines, want)
	}
}

func TestMonitor_DiscardsLoopbackResponses(t *testing.T) {
	// An echoed reply must produce no re-dispatch: the only traffic of the
	// step is the initial status publication.
	prefixLines := []string{
		"ERR unknown_command:hhhh",
		"ACK target_temp_c=3.5",
		"STATUS io.door_open=0",
		"CONFIG target_temp_c=2",
		"IO air_temp_c=8",
	}

	for _, line := range prefixLines {
		t.Run(line, func(t *testing.T) {
			c, monitor, _ := newTestController()
			monitor.InjectRX(line)
			c.Step()

			lines := monitor.DrainTX()
			if len(lines) != 1 || !strings.HasPrefix(lines[0], "STATUS ") {
				t.Errorf("loopback %q produced %v, want only the status publication", line, lines)
			}
		})
	}
}

// ============================================================
// IO Channel Text Dispatch Tests
// ============================================================

func TestIOText_SetSensor(t *testing.T) {
	c, monitor, io := newTestController()
	io.InjectRX("SET_SENSOR air_temp_c=7.5")
	c.Step()

	lines := io.DrainTX()
	if len(lines) != 1 || lines[0] != "ACK air_temp_c=7.5" {
		t.Errorf("io reply = %v, want exactly [ACK air_temp_c=7.5]", lines)
	}
	if c.IO().AirTempC != 7.5 {
		t.Errorf("AirTempC = %v, want 7.5", c.IO().AirTempC)
	}

	// Publication happens on the monitor channel only.
	monitorLines := monitor.DrainTX()
	if len(monitorLines) != 1 || !strings.HasPrefix(monitorLines[0], "STATUS ") {
		t.Errorf("monitor lines = %v, want the single status publication", monitorLines)
	}
}

func TestIOText_SetInputStoresNormalizedBool(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    string
		doorSet bool
	}{
		{"one is true", "SET_INPUT door_open=1", "ACK door_open=1", true},
		{"zero is false", "SET_INPUT door_open=0", "ACK door_open=0", false},
		{"nonzero normalizes to 1", "SET_INPUT door_open=5", "ACK door_open=1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, io := newTestController()
			io.InjectRX(tt.line)
			c.Step()

			lines := io.DrainTX()
			if len(lines) == 0 || lines[0] != tt.want {
				t.Errorf("reply = %v, want %q first", lines, tt.want)
			}
			if c.IO().DoorOpen != tt.doorSet {
				t.Errorf("DoorOpen = %v, want %v", c.IO().DoorOpen, tt.doorSet)
			}
		})
	}
}

func TestIOText_ErrorReplies(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"unknown sensor", "SET_SENSOR humidity=40", "ERR unknown_sensor:humidity"},
		{"unknown input", "SET_INPUT elephant=1", "ERR unknown_input:elephant"},
		{"bad input value", "SET_INPUT door_open=open", "ERR bad_value:door_open"},
		{"bad sensor value", "SET_SENSOR air_temp_c=cold", "ERR bad_value:air_temp_c"},
		{"unknown key wins over bad value", "SET_INPUT bogus=xyz", "ERR unknown_input:bogus"},
		{"monitor verb on io channel", "GET CONFIG", "ERR unknown_command:GET CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, io := newTestController()
			io.InjectRX(tt.line)
			c.Step()

			lines := io.DrainTX()
			if len(lines) == 0 || lines[0] != tt.want {
				t.Errorf("reply = %v, want %q first", lines, tt.want)
			}
		})
	}
}

func TestIOText_GetIO(t *testing.T) {
	c, _, io := newTestController()
	io.InjectRX("GET IO")
	c.Step()

	want := "IO air_temp_c=8, door_open=0, power_ok=1, motion_detected=0, " +
		"panic_button_pressed=0, compressor_on=0, panic_alarm_on=0"
	lines := io.DrainTX()
	if len(lines) != 1 || lines[0] != want {
		t.Errorf("reply = %v\nwant exactly [%q]", lines, want)
	}
}

func TestIO_DiscardsLoopbackAck(t *testing.T) {
	c, _, io := newTestController()
	io.InjectRX("ACK door_open=1")
	c.Step()

	if lines := io.DrainTX(); len(lines) != 0 {
		t.Errorf("loopback on io channel produced %v, want nothing", lines)
	}
	if c.IO().DoorOpen {
		t.Error("loopback ACK mutated state")
	}
}

// ============================================================
// Framed Dispatch Tests
// ============================================================

func mustLine(t *testing.T, f *sck.Frame) string {
	t.Helper()
	line, err := sck.LineFromFrame(f)
	if err != nil {
		t.Fatalf("encoding test frame: %v", err)
	}
	return line
}

func parseReply(t *testing.T, line string) *sck.Frame {
	t.Helper()
	frame, marked, err := sck.ParseLine(line)
	if !marked || err != nil {
		t.Fatalf("reply %q is not a valid SCK line: marked=%v err=%v", line, marked, err)
	}
	return frame
}

func TestFramed_SetConfigEndToEnd(t *testing.T) {
	c, monitor, _ := newTestController()
	monitor.InjectRX(mustLine(t, sck.NewSetConfigCommand(7, "target_temp_c", "3.5")))
	c.Step()

	lines := monitor.DrainTX()
	if len(lines) == 0 {
		t.Fatal("no reply written")
	}
	reply := parseReply(t, lines[0])

	if !reply.IsStatus() {
		t.Errorf("reply kind = %c, want status", reply.Kind())
	}
	if reply.TID() != 7 {
		t.Errorf("reply TID = %d, want 7", reply.TID())
	}
	if reply.Command() != sck.CmdMonitorSetConfig {
		t.Errorf("reply command = 0x%04X, want 0x%04X", reply.Command(), sck.CmdMonitorSetConfig)
	}
	if !strings.Contains(reply.PayloadText(), "ACK target_temp_c=3.5") {
		t.Errorf("reply payload = %q, want ACK target_temp_c=3.5", reply.PayloadText())
	}
	if c.Config().TargetTempC != 3.5 {
		t.Errorf("TargetTempC = %v, want 3.5", c.Config().TargetTempC)
	}
}

func TestFramed_SetInputOnIOChannel(t *testing.T) {
	c, _, io := newTestController()
	io.InjectRX(mustLine(t, sck.NewSetInputCommand(9, "door_open", true)))
	c.Step()

	lines := io.DrainTX()
	if len(lines) != 1 {
		t.Fatalf("io wrote %d lines, want 1: %v", len(lines), lines)
	}
	reply := parseReply(t, lines[0])

	if !reply.IsStatus() || reply.TID() != 9 {
		t.Errorf("reply kind=%c tid=%d, want status tid=9", reply.Kind(), reply.TID())
	}
	if !strings.Contains(reply.PayloadText(), "ACK door_open=1") {
		t.Errorf("reply payload = %q, want ACK door_open=1", reply.PayloadText())
	}
	if !c.IO().DoorOpen {
		t.Error("framed SET_INPUT did not open the door")
	}
}

func TestFramed_GetConfigAndGetIO(t *testing.T) {
	c, monitor, io := newTestController()
	monitor.InjectRX(mustLine(t, sck.NewGetConfigCommand(3)))
	io.InjectRX(mustLine(t, sck.NewGetIOCommand(4)))
	c.Step()

	monReply := parseReply(t, monitor.DrainTX()[0])
	if !strings.HasPrefix(monReply.PayloadText(), "CONFIG ") {
		t.Errorf("monitor reply payload = %q, want CONFIG prefix", monReply.PayloadText())
	}

	ioReply := parseReply(t, io.DrainTX()[0])
	if !strings.HasPrefix(ioReply.PayloadText(), "IO ") {
		t.Errorf("io reply payload = %q, want IO prefix", ioReply.PayloadText())
	}
	if ioReply.TID() != 4 {
		t.Errorf("io reply TID = %d, want 4", ioReply.TID())
	}
}

func TestFramed_EchoesRequestVersion(t *testing.T) {
	c, monitor, _ := newTestController()
	req := sck.NewFrame(0x0777, 5, sck.KindCommand, sck.CmdMonitorGetConfig, nil)
	monitor.InjectRX(mustLine(t, req))
	c.Step()

	reply := parseReply(t, monitor.DrainTX()[0])
	if reply.Version() != 0x0777 {
		t.Errorf("reply version = 0x%04X, want request's 0x0777", reply.Version())
	}
	if reply.TID() != 5 {
		t.Errorf("reply TID = %d, want 5", reply.TID())
	}
}

func TestFramed_UnknownCommandDetails(t *testing.T) {
	tests := []struct {
		name string
		req  *sck.Frame
		want string
	}{
		{
			name: "payload text names the offender",
			req:  sck.NewCommandFrame(0x0099, 1, []byte("mystery")),
			want: "ERR unknown_command:mystery",
		},
		{
			name: "empty payload falls back to decimal code",
			req:  sck.NewCommandFrame(0x0099, 1, nil),
			want: "ERR unknown_command:153",
		},
		{
			name: "set without equals is not a set",
			req:  sck.NewCommandFrame(sck.CmdMonitorSetConfig, 2, []byte("garbage")),
			want: "ERR unknown_command:garbage",
		},
		{
			name: "io code on monitor channel",
			req:  sck.NewGetIOCommand(6),
			want: "ERR unknown_command:259",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, monitor, _ := newTestController()
			monitor.InjectRX(mustLine(t, tt.req))
			c.Step()

			reply := parseReply(t, monitor.DrainTX()[0])
			if reply.PayloadText() != tt.want {
				t.Errorf("reply payload = %q, want %q", reply.PayloadText(), tt.want)
			}
		})
	}
}

func TestFramed_StatusFrameDiscarded(t *testing.T) {
	c, monitor, _ := newTestController()
	echo := sck.NewFrame(sck.DefaultVersion, 1, sck.KindStatus, sck.CmdMonitorGetStatus, []byte("STATUS old"))
	monitor.InjectRX(mustLine(t, echo))
	c.Step()

	lines := monitor.DrainTX()
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "STATUS ") {
		t.Errorf("echoed status frame produced %v, want only the publication", lines)
	}
}

func TestFramed_MalformedFrameFallsBackToText(t *testing.T) {
	c, monitor, _ := newTestController()
	monitor.InjectRX("SCK 02 FF")
	c.Step()

	lines := monitor.DrainTX()
	if len(lines) == 0 || lines[0] != "ERR unknown_command:SCK 02 FF" {
		t.Errorf("reply = %v, want text-form unknown command", lines)
	}
}

// ============================================================
// Control Loop Tests
// ============================================================

func TestControl_HysteresisScenario(t *testing.T) {
	c, _, io, clk := newClockedController()

	io.InjectRX("SET_SENSOR air_temp_c=7.5")
	c.Step()
	if !c.IO().CompressorOn {
		t.Fatal("7.5 C with min-off long elapsed should start the compressor")
	}

	io.InjectRX("SET_SENSOR air_temp_c=0.5")
	c.Step()
	if c.IO().CompressorOn {
		t.Fatal("0.5 C is below the lower threshold, compressor should stop")
	}

	// Re-reach the on state after the minimum-off period.
	clk.advance(5 * time.Minute)
	io.InjectRX("SET_SENSOR air_temp_c=7.5")
	c.Step()
	if !c.IO().CompressorOn {
		t.Fatal("compressor should restart once the minimum-off period elapsed")
	}

	// Dead band holds the current state rather than re-deciding.
	io.InjectRX("SET_SENSOR air_temp_c=1.5")
	c.Step()
	if !c.IO().CompressorOn {
		t.Error("1.5 C is inside the dead band, an on compressor must stay on")
	}
}

func TestControl_DeadBandHoldsOffState(t *testing.T) {
	c, _, io, _ := newClockedController()

	io.InjectRX("SET_SENSOR air_temp_c=1.5")
	c.Step()
	if c.IO().CompressorOn {
		t.Error("1.5 C from a cold start must leave the compressor off")
	}
}

func TestControl_ThresholdBoundaries(t *testing.T) {
	// Defaults: target 2, hysteresis 1, so upper = 3 and lower = 1.
	tests := []struct {
		name    string
		airTemp string
		startOn bool
		wantOn  bool
	}{
		{"at upper threshold starts", "3", false, true},
		{"just under upper holds off", "2.999", false, false},
		{"at lower threshold stops", "1", true, false},
		{"just above lower holds on", "1.001", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, io, _ := newClockedController()
			c.state.CompressorOn = tt.startOn

			io.InjectRX("SET_SENSOR air_temp_c=" + tt.airTemp)
			c.Step()
			if c.IO().CompressorOn != tt.wantOn {
				t.Errorf("air %s from on=%v: compressor = %v, want %v",
					tt.airTemp, tt.startOn, c.IO().CompressorOn, tt.wantOn)
			}
		})
	}
}

func TestControl_MinOffTimerBlocksRestart(t *testing.T) {
	c, _, io, clk := newClockedController()

	io.InjectRX("SET_SENSOR air_temp_c=7.5")
	c.Step()
	io.InjectRX("SET_SENSOR air_temp_c=0.5")
	c.Step()
	if c.IO().CompressorOn {
		t.Fatal("compressor should be off before the restart attempt")
	}

	clk.advance(30 * time.Second)
	io.InjectRX("SET_SENSOR air_temp_c=7.5")
	c.Step()
	if c.IO().CompressorOn {
		t.Error("restart 30s after stopping violates the 120s minimum-off period")
	}

	clk.advance(120 * time.Second)
	c.Step()
	if !c.IO().CompressorOn {
		t.Error("compressor should restart after the minimum-off period")
	}
}

func TestControl_MinOffAppliesFromConstruction(t *testing.T) {
	c, _, io := newTestController()
	clk := &testClock{t: c.lastCompressorOff}
	c.now = clk.now

	io.InjectRX("SET_SENSOR air_temp_c=7.5")
	c.Step()
	if c.IO().CompressorOn {
		t.Error("compressor must honor the minimum-off period from power-on")
	}
}

func TestControl_RepeatedOffDoesNotRefreshTimer(t *testing.T) {
	c, _, io, clk := newClockedController()

	io.InjectRX("SET_SENSOR air_temp_c=7.5")
	c.Step()
	io.InjectRX("SET_SENSOR air_temp_c=0.5")
	c.Step()
	offAt := c.lastCompressorOff

	// Further cold steps keep commanding off; the timestamp must not move.
	clk.advance(10 * time.Second)
	c.Step()
	clk.advance(10 * time.Second)
	c.Step()
	if !c.lastCompressorOff.Equal(offAt) {
		t.Errorf("off timestamp refreshed from %v to %v without a transition",
			offAt, c.lastCompressorOff)
	}
}

func TestControl_PowerLossForcesCompressorOff(t *testing.T) {
	c, _, io, clk := newClockedController()

	io.InjectRX("SET_SENSOR air_temp_c=20")
	c.Step()
	if !c.IO().CompressorOn {
		t.Fatal("20 C should start the compressor")
	}

	io.InjectRX("SET_INPUT power_ok=0")
	c.Step()
	if c.IO().CompressorOn {
		t.Error("compressor must stop when power is lost, regardless of temperature")
	}

	// Thermostat evaluation stays suspended while power is out.
	clk.advance(time.Hour)
	c.Step()
	if c.IO().CompressorOn {
		t.Error("compressor restarted during a power outage")
	}
}

func TestControl_PanicAlarmMirrorsButton(t *testing.T) {
	c, _, io := newTestController()

	io.InjectRX("SET_INPUT panic_button_pressed=1")
	c.Step()
	if !c.IO().PanicAlarmOn {
		t.Error("alarm should follow the pressed button")
	}

	io.InjectRX("SET_INPUT panic_button_pressed=0")
	c.Step()
	if c.IO().PanicAlarmOn {
		t.Error("alarm should clear when the button releases, no latch")
	}
}

func TestControl_PanicAlarmWorksDuringPowerLoss(t *testing.T) {
	c, _, io := newTestController()

	io.InjectRX("SET_INPUT power_ok=0")
	c.Step()
	io.InjectRX("SET_INPUT panic_button_pressed=1")
	c.Step()
	if !c.IO().PanicAlarmOn {
		t.Error("panic alarm must mirror the button even with power out")
	}
}

// ============================================================
// Step Contract Tests
// ============================================================

func TestStep_ReadsAtMostOneLinePerChannel(t *testing.T) {
	c, monitor, _ := newTestController()
	monitor.InjectRX("GET CONFIG")
	monitor.InjectRX("GET STATUS")
	c.Step()

	lines := monitor.DrainTX()
	// One reply plus the initial publication; the queued GET STATUS waits.
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "CONFIG ") {
		t.Fatalf("first step wrote %v, want CONFIG reply + publication", lines)
	}

	c.Step()
	next := monitor.DrainTX()
	if len(next) != 1 || !strings.HasPrefix(next[0], "STATUS ") {
		t.Errorf("second step wrote %v, want the deferred STATUS reply", next)
	}
}

func TestStep_EmptyInjectedLineIsAbsent(t *testing.T) {
	c, monitor, _ := newTestController()
	monitor.InjectRX("   ")
	c.Step()

	lines := monitor.DrainTX()
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "STATUS ") {
		t.Errorf("blank line produced %v, want only the publication", lines)
	}
}
