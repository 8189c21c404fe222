package browser

import "context"

// combineContext derives a context from the browser lifetime context that is
// also canceled when the caller's request context ends, so every chromedp
// call respects both.
func combineContext(lifetime, request context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(lifetime)
	stop := context.AfterFunc(request, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
