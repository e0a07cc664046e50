package lifecycle

// Descriptor is the resolved capability set of one component. It is built
// once by Describe and the registry only ever calls hooks through it.
type Descriptor struct {
	component Component
	kind      Kind
	caps      Capabilities

	init  Initializer
	start Starter
	tick  Ticker
	stop  Stopper
	main  MainInstance
}

// Describe resolves which hooks c declares. A nil component yields the
// zero Descriptor.
func Describe(c Component) Descriptor {
	if c == nil {
		return Descriptor{}
	}
	d := Descriptor{component: c, kind: c.Kind()}
	if v, ok := c.(Initializer); ok {
		d.init = v
		d.caps |= Capabilities(CapInit)
	}
	if v, ok := c.(Starter); ok {
		d.start = v
		d.caps |= Capabilities(CapStart)
	}
	if v, ok := c.(Ticker); ok {
		d.tick = v
		d.caps |= Capabilities(CapTick)
	}
	if v, ok := c.(Stopper); ok {
		d.stop = v
		d.caps |= Capabilities(CapStop)
	}
	if v, ok := c.(MainInstance); ok {
		d.main = v
		d.caps |= Capabilities(CapMainInstance)
	}
	if f, ok := c.(*Funcs); ok {
		// Funcs satisfies every hook interface; only the closures that are
		// set count as declared.
		d.caps = f.declared()
	}
	return d
}

func (d Descriptor) Component() Component { return d.component }

func (d Descriptor) Kind() Kind { return d.kind }

func (d Descriptor) Capabilities() Capabilities { return d.caps }

func (d Descriptor) Has(want Capability) bool { return d.caps.Has(want) }

// Init runs OnInit if declared.
func (d Descriptor) Init() error {
	if !d.Has(CapInit) {
		return nil
	}
	return d.init.OnInit()
}

// Start runs OnStart if declared.
func (d Descriptor) Start() error {
	if !d.Has(CapStart) {
		return nil
	}
	return d.start.OnStart()
}

// Tick runs OnTick if declared.
func (d Descriptor) Tick() error {
	if !d.Has(CapTick) {
		return nil
	}
	return d.tick.OnTick()
}

// Stop runs OnStop if declared.
func (d Descriptor) Stop() error {
	if !d.Has(CapStop) {
		return nil
	}
	return d.stop.OnStop()
}

// MainState reports whether the component takes part in main-instance
// resolution and, if so, whether it currently claims the slot.
func (d Descriptor) MainState() (declared, active bool) {
	if !d.Has(CapMainInstance) {
		return false, false
	}
	return true, d.main.IsMainInstance()
}

func (d Descriptor) String() string {
	return string(d.kind) + "[" + d.caps.String() + "]"
}
