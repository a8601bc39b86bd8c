package telemetry

import "github.com/aimana007/ChronyTop/internal/errors"

const (
	defaultDirPerm = 0o755
	defaultDBPath  = "/var/lib/chronytop/telemetry.db"

	defaultBatchSize    = 10
	defaultBatchTimeout = 60
)

type Config struct {
	Enabled      bool
	DBPath       string
	BatchSize    int
	BatchTimeout int
}

func DefaultConfig() Config {
	return Config{
		DBPath:       defaultDBPath,
		Enabled:      false, // Disabled by default
		BatchSize:    defaultBatchSize,
		BatchTimeout: defaultBatchTimeout,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	// Only validate DBPath if telemetry is enabled
	if c.Enabled && c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}

	return nil
}
