package delta

import (
	"testing"
	"time"

	"iowhy/internal/collector"
)

var (
	t0 = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	t1 = t0.Add(2 * time.Second)
)

func snapshotAt(ts time.Time, procs []collector.ProcessCounters, devs []collector.DeviceCounters) *collector.Snapshot {
	snap := &collector.Snapshot{
		Timestamp: ts,
		Processes: make(map[int32]collector.ProcessCounters),
		Devices:   make(map[string]collector.DeviceCounters),
	}
	for _, p := range procs {
		snap.Processes[p.PID] = p
	}
	for _, d := range devs {
		snap.Devices[d.Name] = d
	}
	return snap
}

func TestComputeProcessDelta(t *testing.T) {
	before := snapshotAt(t0, []collector.ProcessCounters{
		{PID: 1, Name: "dd", ReadBytes: 100, WriteBytes: 50, ReadOps: 10, WriteOps: 5},
	}, nil)
	after := snapshotAt(t1, []collector.ProcessCounters{
		{PID: 1, Name: "dd", ReadBytes: 1100, WriteBytes: 50, ReadOps: 30, WriteOps: 5},
	}, nil)

	res := Compute(before, after)
	if len(res.Processes) != 1 {
		t.Fatalf("expected 1 process delta, got %d", len(res.Processes))
	}

	d := res.Processes[0]
	if d.PID != 1 || d.Name != "dd" {
		t.Errorf("unexpected identity: pid=%d name=%q", d.PID, d.Name)
	}
	if d.ReadBytes != 1000 || d.WriteBytes != 0 {
		t.Errorf("expected read=1000 write=0, got read=%d write=%d", d.ReadBytes, d.WriteBytes)
	}
	if d.ReadOps != 20 || d.WriteOps != 0 {
		t.Errorf("expected readOps=20 writeOps=0, got readOps=%d writeOps=%d", d.ReadOps, d.WriteOps)
	}
	if d.Elapsed != 2 {
		t.Errorf("expected elapsed=2, got %v", d.Elapsed)
	}
}

func TestComputeExcludesChurnedProcesses(t *testing.T) {
	before := snapshotAt(t0, []collector.ProcessCounters{
		{PID: 1, ReadBytes: 100},
		{PID: 2, ReadBytes: 200}, // exits before the second snapshot
	}, nil)
	after := snapshotAt(t1, []collector.ProcessCounters{
		{PID: 1, ReadBytes: 150},
		{PID: 9, ReadBytes: 900}, // started mid-sample
	}, nil)

	res := Compute(before, after)
	if len(res.Processes) != 1 {
		t.Fatalf("expected only the common pid, got %d records", len(res.Processes))
	}
	if res.Processes[0].PID != 1 {
		t.Errorf("expected pid 1, got %d", res.Processes[0].PID)
	}
	if res.ExcludedProcesses != 0 {
		t.Errorf("churned pids are not regressions, excluded count should be 0, got %d", res.ExcludedProcesses)
	}
}

func TestComputeExcludesRegressions(t *testing.T) {
	before := snapshotAt(t0, []collector.ProcessCounters{
		{PID: 3, ReadBytes: 500},
		{PID: 4, ReadBytes: 100, WriteBytes: 100},
	}, nil)
	after := snapshotAt(t1, []collector.ProcessCounters{
		{PID: 3, ReadBytes: 300}, // counter went backwards: pid reuse
		{PID: 4, ReadBytes: 200, WriteBytes: 150},
	}, nil)

	res := Compute(before, after)
	if len(res.Processes) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Processes))
	}
	if res.Processes[0].PID != 4 {
		t.Errorf("unaffected pid 4 should survive, got pid %d", res.Processes[0].PID)
	}
	if got := res.Processes[0].ReadBytes; got != 100 {
		t.Errorf("pid 4 read delta: expected 100, got %d", got)
	}
	if res.ExcludedProcesses != 1 {
		t.Errorf("expected 1 excluded process, got %d", res.ExcludedProcesses)
	}
}

func TestComputeNoExclusionsWhenMonotonic(t *testing.T) {
	procs := func(base uint64) []collector.ProcessCounters {
		return []collector.ProcessCounters{
			{PID: 1, ReadBytes: base, WriteBytes: base, ReadOps: base, WriteOps: base},
			{PID: 2, ReadBytes: base * 2},
			{PID: 3, WriteBytes: base * 3},
		}
	}
	res := Compute(snapshotAt(t0, procs(100), nil), snapshotAt(t1, procs(200), nil))

	if len(res.Processes) != 3 {
		t.Fatalf("every common entity with non-decreasing counters must appear, got %d of 3", len(res.Processes))
	}
	if res.ExcludedProcesses != 0 || res.ExcludedDevices != 0 {
		t.Errorf("expected no exclusions, got %d/%d", res.ExcludedProcesses, res.ExcludedDevices)
	}
}

func TestComputeDeviceDelta(t *testing.T) {
	before := snapshotAt(t0, nil, []collector.DeviceCounters{
		{Name: "sda", ReadOps: 10, WriteOps: 20, ReadSectors: 1000, WriteSectors: 2000},
		{Name: "sdb", ReadSectors: 500},
	})
	after := snapshotAt(t1, nil, []collector.DeviceCounters{
		{Name: "sda", ReadOps: 15, WriteOps: 25, ReadSectors: 1400, WriteSectors: 2600},
		{Name: "sdb", ReadSectors: 400}, // regression
	})

	res := Compute(before, after)
	if len(res.Devices) != 1 {
		t.Fatalf("expected 1 device delta, got %d", len(res.Devices))
	}
	d := res.Devices[0]
	if d.Name != "sda" || d.ReadSectors != 400 || d.WriteSectors != 600 {
		t.Errorf("unexpected delta: %+v", d)
	}
	if res.ExcludedDevices != 1 {
		t.Errorf("expected 1 excluded device, got %d", res.ExcludedDevices)
	}
}

func TestComputeOutputIsOrdered(t *testing.T) {
	procs := []collector.ProcessCounters{
		{PID: 30}, {PID: 10}, {PID: 20},
	}
	devs := []collector.DeviceCounters{
		{Name: "sdb"}, {Name: "sda"},
	}
	res := Compute(snapshotAt(t0, procs, devs), snapshotAt(t1, procs, devs))

	for i := 1; i < len(res.Processes); i++ {
		if res.Processes[i-1].PID >= res.Processes[i].PID {
			t.Fatalf("process deltas not pid-ascending: %+v", res.Processes)
		}
	}
	for i := 1; i < len(res.Devices); i++ {
		if res.Devices[i-1].Name >= res.Devices[i].Name {
			t.Fatalf("device deltas not name-ascending: %+v", res.Devices)
		}
	}
}

func TestCumulative(t *testing.T) {
	snap := snapshotAt(t0, []collector.ProcessCounters{
		{PID: 7, Name: "rsync", ReadBytes: 4096, WriteBytes: 8192, ReadOps: 4, WriteOps: 8},
	}, []collector.DeviceCounters{
		{Name: "nvme0n1", ReadOps: 100, WriteOps: 200, ReadSectors: 1000, WriteSectors: 2000},
	})

	res := Cumulative(snap)
	if len(res.Processes) != 1 || len(res.Devices) != 1 {
		t.Fatalf("expected all entities carried through, got %d procs / %d devs",
			len(res.Processes), len(res.Devices))
	}

	p := res.Processes[0]
	if p.ReadBytes != 4096 || p.WriteBytes != 8192 {
		t.Errorf("cumulative mode must carry raw counters, got %+v", p)
	}
	if p.Elapsed != 0 {
		t.Errorf("cumulative mode must report elapsed=0, got %v", p.Elapsed)
	}
	if res.Devices[0].Elapsed != 0 {
		t.Errorf("cumulative device elapsed must be 0, got %v", res.Devices[0].Elapsed)
	}
}
