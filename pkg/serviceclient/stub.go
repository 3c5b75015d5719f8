package serviceclient

// Stub hands out the invocation recorded by the last stub method call.
type Stub interface {
	// Invocation returns the recorded invocation and forgets it, or nil when
	// nothing was recorded since the previous call.
	Invocation() *Invocation
}

// Recorder is the Stub behind generated or hand written service stubs. Each
// stub method calls Record with its operation and arguments and returns zero
// values.
//
//	func (s *greetingStub) Hello(name string) string {
//		s.rec.Record(&OpHello, name)
//		return ""
//	}
type Recorder struct {
	ctx  *ServiceContext
	last *Invocation
}

// NewRecorder returns a recorder whose invocations target ctx.
func NewRecorder(ctx *ServiceContext) *Recorder {
	return &Recorder{ctx: ctx}
}

// Record replaces any previous recording.
func (r *Recorder) Record(op *Operation, args ...any) {
	r.last = &Invocation{
		Operation: op,
		Args:      args,
		Context:   r.ctx,
	}
}

func (r *Recorder) Invocation() *Invocation {
	inv := r.last
	r.last = nil
	return inv
}
