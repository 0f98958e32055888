package logging

import "go.uber.org/zap"

// Flags are the logging command line flags shared by the binaries.
type Flags struct {
	Level  string `help:"Log level." default:"info" enum:"debug,info,warn,error" env:"CO2_LOG_LEVEL"`
	Format string `help:"Log format." default:"console" enum:"json,console" env:"CO2_LOG_FORMAT"`
}

func (f Flags) Logger() (*zap.Logger, error) {
	return New(f.Level, f.Format)
}
