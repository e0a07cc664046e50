package lifecycle

// Funcs builds a component out of closures. Only the closures that are
// non-nil are declared as capabilities.
type Funcs struct {
	Name   Kind
	Init   func() error
	Start  func() error
	Tick   func() error
	Stop   func() error
	IsMain func() bool
}

func (f *Funcs) Kind() Kind { return f.Name }

func (f *Funcs) OnInit() error { return call(f.Init) }

func (f *Funcs) OnStart() error { return call(f.Start) }

func (f *Funcs) OnTick() error { return call(f.Tick) }

func (f *Funcs) OnStop() error { return call(f.Stop) }

func (f *Funcs) IsMainInstance() bool {
	if f.IsMain == nil {
		return false
	}
	return f.IsMain()
}

func (f *Funcs) declared() Capabilities {
	var c Capabilities
	if f.Init != nil {
		c |= Capabilities(CapInit)
	}
	if f.Start != nil {
		c |= Capabilities(CapStart)
	}
	if f.Tick != nil {
		c |= Capabilities(CapTick)
	}
	if f.Stop != nil {
		c |= Capabilities(CapStop)
	}
	if f.IsMain != nil {
		c |= Capabilities(CapMainInstance)
	}
	return c
}

func call(fn func() error) error {
	if fn == nil {
		return nil
	}
	return fn()
}
