package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelWriter routes each event to the writer of its level family:
// trace, debug+info, warn and error+fatal+panic.
type LevelWriter struct {
	Trace io.Writer
	Info  io.Writer
	Warn  io.Writer
	Error io.Writer
}

// Write is used for events without level.
func (lw *LevelWriter) Write(p []byte) (int, error) {
	return lw.Info.Write(p) //nolint:wrapcheck
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l == zerolog.Disabled {
		return 0, nil
	}

	return lw.target(l).Write(p) //nolint:wrapcheck
}

func (lw *LevelWriter) target(l zerolog.Level) io.Writer {
	switch {
	case l == zerolog.TraceLevel:
		return lw.Trace
	case l == zerolog.WarnLevel:
		return lw.Warn
	case l > zerolog.WarnLevel && l != zerolog.NoLevel:
		return lw.Error
	default:
		return lw.Info
	}
}

// Init configures the global logger. With no writer enabled every event is discarded.
func Init(cfg Log) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "loglevel %s is not supported", cfg.LogLevel)
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	writers, err := outputs(cfg)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(level)
	zerolog.ErrorHandler = writeFailed //nolint:reassign

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(NewLevelCounter(cfg.ServiceName)).
		With().
		Timestamp()

	if cfg.ReportCaller {
		ctx = ctx.Caller()

		// stacks are only worth their size at trace level
		if level == zerolog.TraceLevel {
			zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
			ctx = ctx.Stack()
		}
	}

	log.Logger = ctx.Logger()

	return nil
}

func outputs(cfg Log) ([]io.Writer, error) {
	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg.Console))
	}

	if cfg.File.Enabled {
		fw, err := NewFileWriter(cfg.File)
		if err != nil {
			return nil, err
		}

		writers = append(writers, fw)
	}

	if cfg.DataDog.Enabled {
		if cfg.DataDog.ServiceName == "" {
			cfg.DataDog.ServiceName = cfg.ServiceName
		}

		dw, err := NewDataDogWriter(cfg.DataDog)
		if err != nil {
			return nil, errors.Wrap(err, "failed to init datadog log shipping")
		}

		writers = append(writers, dw)
	}

	return writers, nil
}

// Rolling returns a lumberjack writer for r inside dir.
func Rolling(dir string, r Roll) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, r.Name),
		MaxSize:    r.MaxSize,
		MaxAge:     r.MaxAge,
		MaxBackups: r.MaxBackups,
	}
}

// NewFileWriter creates the log directory and one rolling file per level family.
func NewFileWriter(cfg LogFile) (*LevelWriter, error) {
	if err := os.MkdirAll(cfg.Path, 0o750); err != nil { //nolint:mnd
		return nil, errors.Wrapf(err, "can't create log directory %s", cfg.Path)
	}

	return &LevelWriter{
		Trace: Rolling(cfg.Path, cfg.Trace),
		Info:  Rolling(cfg.Path, cfg.Info),
		Warn:  Rolling(cfg.Path, cfg.Warn),
		Error: Rolling(cfg.Path, cfg.Error),
	}, nil
}

// NewConsoleWriter sends info and debug to stdout and everything else to stderr.
func NewConsoleWriter(cfg Console) *LevelWriter {
	stdout, stderr := io.Writer(os.Stdout), io.Writer(os.Stderr)

	if cfg.UseConsoleWriter {
		stdout = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: zerolog.TimeFieldFormat}
		stderr = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: zerolog.TimeFieldFormat}
	}

	return &LevelWriter{Trace: stderr, Info: stdout, Warn: stderr, Error: stderr}
}
