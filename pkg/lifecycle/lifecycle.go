package lifecycle

// Lifecycle receives screen state transitions.
//
// Registrations are keyed by identity, so implementations must be pointers.
// The Manager ignores any other kind of value with a warning.
type Lifecycle interface {
	OnEnter()
	OnExit()
	OnDestroy()
}

// Funcs adapts plain functions to Lifecycle. Nil fields are skipped.
// Always pass a *Funcs so identity is preserved.
type Funcs struct {
	Enter   func()
	Exit    func()
	Destroy func()
}

// OnEnter calls Enter.
func (f *Funcs) OnEnter() {
	if f.Enter != nil {
		f.Enter()
	}
}

// OnExit calls Exit.
func (f *Funcs) OnExit() {
	if f.Exit != nil {
		f.Exit()
	}
}

// OnDestroy calls Destroy.
func (f *Funcs) OnDestroy() {
	if f.Destroy != nil {
		f.Destroy()
	}
}
