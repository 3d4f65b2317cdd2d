package effectchain

// stubRuntime is a minimal Runtime implementation for testing.
type stubRuntime struct {
	configureErr   error
	processErr     error
	configureCalls int
	processCalls   int
	resetCalls     int
	latency        int
	lastCtx        Context
	lastParams     Params
}

func (s *stubRuntime) Configure(ctx Context, params Params) error {
	s.configureCalls++
	s.lastCtx = ctx
	s.lastParams = params

	return s.configureErr
}

func (s *stubRuntime) Process(_ []float64) error {
	s.processCalls++

	return s.processErr
}

func (s *stubRuntime) Latency() int { return s.latency }

func (s *stubRuntime) Reset() { s.resetCalls++ }

// addRuntime adds a constant to every sample.
type addRuntime struct {
	value float64
}

func (a *addRuntime) Configure(_ Context, params Params) error {
	a.value = params.GetNum("value", 0)

	return nil
}

func (a *addRuntime) Process(block []float64) error {
	for i := range block {
		block[i] += a.value
	}

	return nil
}

// testRegistry creates the default registry plus simple test effects.
func testRegistry() *Registry {
	r := DefaultRegistry()

	r.MustRegister("stub", func(_ Context) (Runtime, error) {
		return &stubRuntime{}, nil
	})
	r.MustRegister("add", func(_ Context) (Runtime, error) {
		return &addRuntime{}, nil
	})

	return r
}
