package studentstats

// DefaultRetries is the retry budget used when WithRetries is not given.
const DefaultRetries = 3

// RetryHook is called before a timed out page fetch is retried. attempt is
// the number of the attempt that failed, starting at 1.
type RetryHook func(page, attempt int, err error)

type options struct {
	retries int
	onRetry RetryHook
}

// Option configures an Iterator.
type Option func(*options)

// WithRetries sets how many times a timed out page fetch is retried before
// the list is considered unreachable. Zero disables retries.
func WithRetries(n int) Option {
	return func(o *options) { o.retries = n }
}

// WithRetryHook registers fn to observe retries.
func WithRetryHook(fn RetryHook) Option {
	return func(o *options) { o.onRetry = fn }
}

func buildOptions(opts []Option) options {
	o := options{retries: DefaultRetries}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
