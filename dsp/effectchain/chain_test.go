package effectchain

import (
	"errors"
	"testing"

	"github.com/goyamamoto/effetune-sub001/internal/testutil"
)

var stereo48k = Context{SampleRate: 48000, Channels: 2}

func TestChainLoadAndProcess(t *testing.T) {
	t.Parallel()

	c := New(stereo48k, testRegistry())

	err := c.Load([]Params{
		{ID: "a", Type: "add", Num: map[string]float64{"value": 1}},
		{ID: "g", Type: TypeGain, Num: map[string]float64{"db": 20}},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	block := make([]float64, 8)
	if err := c.Process(block); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, block, testutil.DC(10, 8), 1e-12)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
}

func TestChainSkipsBypassedNodes(t *testing.T) {
	t.Parallel()

	c := New(stereo48k, testRegistry())

	err := c.Load([]Params{
		{ID: "a", Type: "add", Bypassed: true, Num: map[string]float64{"value": 1}},
		{ID: "s", Type: "stub", Bypassed: true},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	block := testutil.Ones(4)
	if err := c.Process(block); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, block, testutil.Ones(4), 0)

	stub := c.NodeRuntime("s").(*stubRuntime)
	if stub.processCalls != 0 {
		t.Fatalf("bypassed stub processed %d times", stub.processCalls)
	}

	if stub.configureCalls != 1 {
		t.Fatalf("bypassed stub configured %d times, want 1", stub.configureCalls)
	}
}

func TestChainReusesRuntimes(t *testing.T) {
	t.Parallel()

	c := New(stereo48k, testRegistry())

	if err := c.Load([]Params{{ID: "s", Type: "stub"}}); err != nil {
		t.Fatal(err)
	}

	first := c.NodeRuntime("s")

	if err := c.Load([]Params{{ID: "s", Type: "stub", Num: map[string]float64{"x": 1}}}); err != nil {
		t.Fatal(err)
	}

	if c.NodeRuntime("s") != first {
		t.Fatal("expected runtime to be reused for unchanged id and type")
	}

	if got := first.(*stubRuntime).configureCalls; got != 2 {
		t.Fatalf("configureCalls = %d, want 2", got)
	}

	if err := c.Load([]Params{{ID: "s", Type: "add"}}); err != nil {
		t.Fatal(err)
	}

	if c.NodeRuntime("s") == first {
		t.Fatal("expected new runtime after type change")
	}
}

func TestChainLoadErrorsKeepPreviousNodes(t *testing.T) {
	t.Parallel()

	c := New(stereo48k, testRegistry())

	if err := c.Load([]Params{{ID: "a", Type: "add"}}); err != nil {
		t.Fatal(err)
	}

	err := c.Load([]Params{{ID: "x", Type: "nope"}})
	if !errors.Is(err, ErrUnknownEffect) {
		t.Fatalf("Load(unknown) error = %v, want ErrUnknownEffect", err)
	}

	err = c.Load([]Params{{ID: "d", Type: "add"}, {ID: "d", Type: "add"}})
	if err == nil {
		t.Fatal("expected duplicate id error")
	}

	if c.Len() != 1 || c.NodeRuntime("a") == nil {
		t.Fatal("failed Load must keep the previous node list")
	}
}

func TestChainFailedLoadKeepsPreviousParams(t *testing.T) {
	t.Parallel()

	c := New(stereo48k, testRegistry())

	if err := c.Load([]Params{{ID: "g", Type: TypeGain, Num: map[string]float64{"db": 0}}}); err != nil {
		t.Fatal(err)
	}

	err := c.Load([]Params{
		{ID: "g", Type: TypeGain, Num: map[string]float64{"db": 20}, Bypassed: true},
		{ID: "x", Type: "nope"},
	})
	if !errors.Is(err, ErrUnknownEffect) {
		t.Fatalf("Load() error = %v, want ErrUnknownEffect", err)
	}

	block := testutil.Ones(4)
	if err := c.Process(block); err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, block, testutil.Ones(4), 0)
}

func TestChainFailedReconfigureRestoresEarlierNodes(t *testing.T) {
	t.Parallel()

	c := New(stereo48k, testRegistry())

	if err := c.Load([]Params{
		{ID: "a", Type: "add", Num: map[string]float64{"value": 1}},
		{ID: "s", Type: "stub"},
	}); err != nil {
		t.Fatal(err)
	}

	stub, ok := c.NodeRuntime("s").(*stubRuntime)
	if !ok {
		t.Fatalf("NodeRuntime(s) = %T, want *stubRuntime", c.NodeRuntime("s"))
	}

	stub.configureErr = errors.New("rejected")

	err := c.Load([]Params{
		{ID: "a", Type: "add", Num: map[string]float64{"value": 5}},
		{ID: "s", Type: "stub"},
	})
	if err == nil {
		t.Fatal("expected configure error")
	}

	block := make([]float64, 4)
	if err := c.Process(block); err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, block, testutil.Ones(4), 0)
}

func TestChainDefaultIDs(t *testing.T) {
	t.Parallel()

	c := New(stereo48k, testRegistry())

	if err := c.Load([]Params{{Type: "add"}, {Type: "add"}}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.NodeRuntime("add-0") == nil || c.NodeRuntime("add-1") == nil {
		t.Fatal("expected generated ids add-0 and add-1")
	}
}

func TestChainPropagatesErrors(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	boom := errors.New("boom")

	r.MustRegister("bad-config", func(_ Context) (Runtime, error) {
		return &stubRuntime{configureErr: boom}, nil
	})
	r.MustRegister("bad-process", func(_ Context) (Runtime, error) {
		return &stubRuntime{processErr: boom}, nil
	})

	c := New(stereo48k, r)

	if err := c.Load([]Params{{Type: "bad-config"}}); !errors.Is(err, boom) {
		t.Fatalf("Load() error = %v, want boom", err)
	}

	if err := c.Load([]Params{{Type: "bad-process"}}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := c.Process(make([]float64, 4)); !errors.Is(err, boom) {
		t.Fatalf("Process() error = %v, want boom", err)
	}

	if err := c.Process(make([]float64, 3)); err == nil {
		t.Fatal("expected error for block not divisible by channel count")
	}
}

func TestChainLatencyAndReset(t *testing.T) {
	t.Parallel()

	c := New(stereo48k, testRegistry())

	err := c.Load([]Params{
		{ID: "p", Type: TypePitch, Num: map[string]float64{"semitones": 5, "windowMs": 40}},
		{ID: "s", Type: "stub"},
		{ID: "off", Type: TypePitch, Bypassed: true, Num: map[string]float64{"semitones": 5}},
	})
	if err != nil {
		t.Fatal(err)
	}

	c.NodeRuntime("s").(*stubRuntime).latency = 10

	if got := c.Latency(); got != 2058 {
		t.Fatalf("Latency() = %d, want 2058", got)
	}

	c.Reset()

	if got := c.NodeRuntime("s").(*stubRuntime).resetCalls; got != 1 {
		t.Fatalf("resetCalls = %d, want 1", got)
	}
}

func TestChainSetContextReconfigures(t *testing.T) {
	t.Parallel()

	c := New(stereo48k, testRegistry())

	if err := c.Load([]Params{{ID: "s", Type: "stub", Num: map[string]float64{"k": 2}}}); err != nil {
		t.Fatal(err)
	}

	mono := Context{SampleRate: 44100, Channels: 1}
	if err := c.SetContext(mono); err != nil {
		t.Fatalf("SetContext() error = %v", err)
	}

	stub := c.NodeRuntime("s").(*stubRuntime)
	if stub.lastCtx != mono || stub.lastParams.GetNum("k", 0) != 2 {
		t.Fatalf("stub reconfigured with %+v %+v", stub.lastCtx, stub.lastParams)
	}

	if c.Context() != mono {
		t.Fatalf("Context() = %+v, want %+v", c.Context(), mono)
	}
}

func TestChainEmptyBlock(t *testing.T) {
	t.Parallel()

	c := New(stereo48k, testRegistry())
	if err := c.Process(nil); err != nil {
		t.Fatalf("Process(nil) error = %v", err)
	}
}
