package bitcask

// Option configures a Store at Open time.
type Option func(*Config)

// Config is the configuration for a Store.
type Config struct {
	// SyncWrites fsyncs the log after every Put and Delete. Off by
	// default: appends are flushed to the OS but not forced to disk
	// until Sync or Close.
	SyncWrites bool

	// Compression is the codec applied to value bytes before they are
	// written. Keys and the entry framing are never compressed.
	Compression CompressionType

	// MmapReads serves value reads from a read-only mapping of the log
	// instead of pread.
	MmapReads bool

	Logger Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		SyncWrites:  false,
		Compression: NoCompression,
		MmapReads:   false,
		Logger:      Discard,
	}
}

// WithSyncWrites sets whether every write is fsynced.
func WithSyncWrites(sync bool) Option {
	return func(c *Config) {
		c.SyncWrites = sync
	}
}

// WithCompression sets the value compression codec.
func WithCompression(t CompressionType) Option {
	return func(c *Config) {
		c.Compression = t
	}
}

// WithMmapReads sets whether value reads go through a memory mapping.
func WithMmapReads(enable bool) Option {
	return func(c *Config) {
		c.MmapReads = enable
	}
}

// WithLogger sets the logger used for non-fatal reporting.
func WithLogger(l Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}
