package render

import "fmt"

// handle panics on err. Used for gpu api calls that cannot fail under
// correct state invariants, a failure there is a bug worth crashing on.
func handle(err error, desc string, args ...any) {
	if err != nil {
		text := fmt.Sprintf(desc, args...)
		panic(text + ": " + err.Error())
	}
}

type releaser interface {
	Release()
}

// releaseGuard releases a gpu object on scope exit unless kept.
type releaseGuard struct {
	delegate releaser
}

func newReleaseGuard(delegate releaser) releaseGuard {
	return releaseGuard{delegate: delegate}
}

func (r *releaseGuard) Release() {
	if r.delegate != nil {
		r.delegate.Release()
		r.delegate = nil
	}
}
