package namespace

// signal tracks readiness for one not-yet-registered path. The first
// Register for the path drains conts, closes ch, and removes the
// signal; from then on the index alone answers readiness queries.
type signal struct {
	conts []func()
	ch    chan struct{}
}

// closedChan is handed out for paths that are already registered.
var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// OnReady runs fn when path is registered. If path is already
// registered, fn runs synchronously within this call. Otherwise fn is
// parked and the first Register for path runs it synchronously after
// its merge, before that Register returns. Either way fn runs exactly
// once. There is no cancellation.
func (r *Registry) OnReady(path string, fn func()) error {
	if fn == nil {
		return ErrNilCallback
	}
	_, fq, err := r.normalize(path)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if _, ok := r.index[fq]; ok {
		r.mu.Unlock()
		fn()
		return nil
	}
	sig := r.signals[fq]
	if sig == nil {
		sig = &signal{}
		r.signals[fq] = sig
	}
	sig.conts = append(sig.conts, fn)
	r.mu.Unlock()
	return nil
}

// Ready returns a channel that is closed once path is registered;
// for an already-registered path the channel is closed on arrival.
// An invalid path yields a nil channel, which never becomes ready.
func (r *Registry) Ready(path string) <-chan struct{} {
	_, fq, err := r.normalize(path)
	if err != nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.index[fq]; ok {
		return closedChan
	}
	sig := r.signals[fq]
	if sig == nil {
		sig = &signal{}
		r.signals[fq] = sig
	}
	if sig.ch == nil {
		sig.ch = make(chan struct{})
	}
	return sig.ch
}

// resolveLocked marks fq registered for readiness purposes and returns
// the parked callbacks in attach order. Caller holds r.mu and must run
// the callbacks only after releasing it.
func (r *Registry) resolveLocked(fq string) []func() {
	sig, ok := r.signals[fq]
	if !ok {
		return nil
	}
	if sig.ch != nil {
		close(sig.ch)
	}
	delete(r.signals, fq)
	return sig.conts
}
