package storage

import (
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/arloliu/coltab/endian"
	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/format"
	"github.com/arloliu/coltab/internal/options"
)

// DefaultConcurrency is the number of column files processed in parallel
// when WithConcurrency is not given.
const DefaultConcurrency = 4

// DefaultCompression is the payload compression used when WithCompression is not given.
const DefaultCompression = format.CompressionS2

type config struct {
	fs          afero.Fs
	concurrency int
	compression format.CompressionType
	engine      endian.EndianEngine
	logger      *zap.Logger
}

// Option configures a Writer or Reader.
type Option = options.Option[*config]

func newConfig(opts ...Option) (*config, error) {
	cfg := &config{
		fs:          afero.NewOsFs(),
		concurrency: DefaultConcurrency,
		compression: DefaultCompression,
		engine:      endian.GetLittleEndianEngine(),
		logger:      zap.NewNop(),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithFs sets the filesystem tables are stored on. The default is the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return options.New(func(c *config) error {
		if fs == nil {
			return fmt.Errorf("%w: nil filesystem", errs.ErrInvalidOption)
		}
		c.fs = fs

		return nil
	})
}

// WithConcurrency sets how many column files are read or written at once.
func WithConcurrency(n int) Option {
	return options.New(func(c *config) error {
		if n < 1 {
			return fmt.Errorf("%w: concurrency must be positive, got %d", errs.ErrInvalidOption, n)
		}
		c.concurrency = n

		return nil
	})
}

// WithCompression sets the payload compression of written column files.
// Readers ignore it; every file records its own compression.
func WithCompression(t format.CompressionType) Option {
	return options.New(func(c *config) error {
		if !t.IsValid() {
			return fmt.Errorf("%w: %w: 0x%x", errs.ErrInvalidOption, errs.ErrInvalidCompression, uint8(t))
		}
		c.compression = t

		return nil
	})
}

// WithLogger sets the logger for per-column events. A nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *config) {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.logger = logger
	})
}

// WithBigEndian writes fixed-width values most-significant byte first.
func WithBigEndian() Option {
	return options.NoError(func(c *config) {
		c.engine = endian.GetBigEndianEngine()
	})
}

// WithLittleEndian writes fixed-width values least-significant byte first. This is the default.
func WithLittleEndian() Option {
	return options.NoError(func(c *config) {
		c.engine = endian.GetLittleEndianEngine()
	})
}
