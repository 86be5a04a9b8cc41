package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config niveles y formato de salida del logger.
type Config struct {
	Env   string // development -> consola con color; cualquier otro -> JSON
	Level string // trace, debug, info, warn, error; vacío = según Env
}

// Logger envuelve zerolog para inyectarlo en los casos de uso y jobs.
type Logger struct {
	zl zerolog.Logger
}

// New arma el logger del servicio. En development escribe a consola legible
// y baja el nivel por defecto a debug; en producción emite JSON nivel info.
func New(cfg Config) *Logger {
	desarrollo := cfg.Env == "development"

	var w io.Writer = os.Stdout
	if desarrollo {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}

	zl := zerolog.New(w).Level(nivel(cfg.Level, desarrollo)).With().Timestamp().Logger()

	// Las librerías que loguean por el global de zerolog salen por acá también.
	log.Logger = zl

	return &Logger{zl: zl}
}

func nivel(s string, desarrollo bool) zerolog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	}
	if desarrollo {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With abre un sublogger con campos fijos (por ejemplo el nombre del job).
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

// Zerolog expone el logger interno cuando hace falta la API completa.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
