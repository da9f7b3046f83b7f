package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"iowhy/internal/delta"
	"iowhy/internal/report"
)

var ts = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func renderJSON(t *testing.T, rep *report.Report) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	if err := JSON(&buf, rep); err != nil {
		t.Fatalf("render: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON produced: %v\n%s", err, buf.String())
	}
	return doc
}

func TestJSONSampledReport(t *testing.T) {
	res := delta.Result{
		Processes: []delta.ProcessDelta{
			{PID: 42, Name: "postgres", Command: "/usr/bin/postgres",
				ReadBytes: 1000, WriteBytes: 200, ReadOps: 10, WriteOps: 4, Elapsed: 2},
		},
	}
	doc := renderJSON(t, report.Build(ts, 2, res, 5, false))

	if doc["timestamp"] != "2025-03-14T12:00:00Z" {
		t.Errorf("timestamp: got %v", doc["timestamp"])
	}
	if doc["sampling_duration_seconds"] != 2.0 {
		t.Errorf("sampling_duration_seconds: got %v", doc["sampling_duration_seconds"])
	}
	if _, ok := doc["summary"].(string); !ok {
		t.Errorf("summary missing or not a string: %v", doc["summary"])
	}

	procs, ok := doc["top_processes"].([]any)
	if !ok || len(procs) != 1 {
		t.Fatalf("top_processes: got %v", doc["top_processes"])
	}
	p := procs[0].(map[string]any)
	want := map[string]any{
		"pid":              42.0,
		"name":             "postgres",
		"command":          "/usr/bin/postgres",
		"read_bytes":       1000.0,
		"write_bytes":      200.0,
		"read_operations":  10.0,
		"write_operations": 4.0,
		"total_io_bytes":   1200.0,
	}
	for k, v := range want {
		if p[k] != v {
			t.Errorf("%s: expected %v, got %v", k, v, p[k])
		}
	}
	for _, k := range []string{"read_bytes_formatted", "write_bytes_formatted"} {
		if s, ok := p[k].(string); !ok || s == "" {
			t.Errorf("%s missing or empty: %v", k, p[k])
		}
	}
}

func TestJSONDevicesNullWhenNotRequested(t *testing.T) {
	doc := renderJSON(t, report.Build(ts, 2, delta.Result{}, 5, false))

	v, present := doc["devices"]
	if !present {
		t.Fatal("devices key must always be present")
	}
	if v != nil {
		t.Errorf("devices should be null when the breakdown was not requested, got %v", v)
	}
}

func TestJSONDevicesEmptyArrayWhenRequested(t *testing.T) {
	doc := renderJSON(t, report.Build(ts, 2, delta.Result{}, 5, true))

	devs, ok := doc["devices"].([]any)
	if !ok {
		t.Fatalf("devices should be an array when requested, got %v", doc["devices"])
	}
	if len(devs) != 0 {
		t.Errorf("expected empty array, got %v", devs)
	}
}

func TestJSONDeviceFieldsAndRates(t *testing.T) {
	res := delta.Result{
		Devices: []delta.DeviceDelta{
			{Name: "sda", ReadOps: 10, WriteOps: 4, ReadSectors: 100, WriteSectors: 40, Elapsed: 2},
		},
	}
	doc := renderJSON(t, report.Build(ts, 2, res, 5, true))

	devs := doc["devices"].([]any)
	d := devs[0].(map[string]any)

	if d["name"] != "sda" {
		t.Errorf("name: got %v", d["name"])
	}
	if d["read_bytes"] != float64(100*report.SectorSize) {
		t.Errorf("read_bytes: got %v", d["read_bytes"])
	}
	if d["reads_per_second"] != 5.0 {
		t.Errorf("reads_per_second: got %v", d["reads_per_second"])
	}
	if d["read_bytes_per_second"] != float64(100*report.SectorSize)/2 {
		t.Errorf("read_bytes_per_second: got %v", d["read_bytes_per_second"])
	}
}

func TestJSONCumulativeReport(t *testing.T) {
	res := delta.Result{
		Processes: []delta.ProcessDelta{
			{PID: 1, Name: "dd", ReadBytes: 4096, Elapsed: 0},
		},
		Devices: []delta.DeviceDelta{
			{Name: "sda", ReadOps: 10, ReadSectors: 100, Elapsed: 0},
		},
	}
	doc := renderJSON(t, report.Build(ts, 0, res, 5, true))

	v, present := doc["sampling_duration_seconds"]
	if !present {
		t.Fatal("sampling_duration_seconds key must always be present")
	}
	if v != nil {
		t.Errorf("sampling_duration_seconds should be null in cumulative mode, got %v", v)
	}

	d := doc["devices"].([]any)[0].(map[string]any)
	for _, k := range []string{"reads_per_second", "read_bytes_per_second"} {
		if _, ok := d[k]; ok {
			t.Errorf("%s must be omitted in cumulative mode", k)
		}
	}
}
