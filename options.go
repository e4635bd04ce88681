package cotask

import "github.com/rs/zerolog"

type options struct {
	cfg     Config
	alloc   StackAllocator
	log     zerolog.Logger
	observe Observer
}

// Option configures a Scheduler.
type Option func(*options) error

// WithConfig replaces the default configuration. The allocator it names
// is used unless WithAllocator is also given.
func WithConfig(cfg Config) Option {
	return func(o *options) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		o.cfg = cfg
		return nil
	}
}

// WithAllocator sets the stack allocator, overriding Config.Allocator.
func WithAllocator(alloc StackAllocator) Option {
	return func(o *options) error {
		o.alloc = alloc
		return nil
	}
}

// WithLogger sets the structured logger. The default discards output.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) error {
		o.log = log
		return nil
	}
}

// WithObserver registers a callback for scheduler events.
func WithObserver(fn Observer) Option {
	return func(o *options) error {
		o.observe = fn
		return nil
	}
}

func resolveOptions(opts []Option) (*options, error) {
	o := &options{
		cfg: DefaultConfig(),
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	if o.alloc == nil {
		alloc, err := newAllocator(o.cfg.Allocator)
		if err != nil {
			return nil, err
		}
		o.alloc = alloc
	}

	if o.cfg.LogLevel != "" {
		lvl, err := zerolog.ParseLevel(o.cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		o.log = o.log.Level(lvl)
	}
	return o, nil
}
