package logger

import (
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
)

const timestampLayout = "2006-01-02 15:04:05"

// Options configures the package logger.
type Options struct {
	Level  string // DEBUG, INFO, WARN or ERROR
	Format string // text or json
	Output string // stderr, stdout or a file path
}

var (
	mu           sync.Mutex
	currentLevel = LevelInfo
	jsonFormat   bool
	color        bool
	logger       = stdlog.New(os.Stderr, "", 0)
	closer       io.Closer
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) color() string {
	switch l {
	case LevelDebug:
		return colorGray
	case LevelInfo:
		return colorCyan
	case LevelWarn:
		return colorYellow
	default:
		return colorRed
	}
}

func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToUpper(level) {
	case "DEBUG":
		currentLevel = LevelDebug
	case "INFO":
		currentLevel = LevelInfo
	case "WARN":
		currentLevel = LevelWarn
	case "ERROR":
		currentLevel = LevelError
	}
}

// GetLevel returns the active level.
func GetLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return currentLevel
}

// Init applies opts. Color is only used for text output on a terminal.
func Init(opts Options) error {
	var (
		w        io.Writer
		c        io.Closer
		terminal bool
	)
	switch strings.ToLower(opts.Output) {
	case "", "stderr":
		w = os.Stderr
		terminal = isTerminal(os.Stderr)
	case "stdout":
		w = os.Stdout
		terminal = isTerminal(os.Stdout)
	default:
		f, err := os.OpenFile(opts.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log output %s: %w", opts.Output, err)
		}
		w, c = f, f
	}

	if opts.Level != "" {
		SetLevel(opts.Level)
	}

	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = closer.Close()
	}
	closer = c
	logger = stdlog.New(w, "", 0)
	jsonFormat = strings.EqualFold(opts.Format, "json")
	color = terminal && !jsonFormat
	return nil
}

// SetOutput redirects log output to w without color. Used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = stdlog.New(w, "", 0)
	color = false
}

// Close releases a file opened by Init.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	logger = stdlog.New(os.Stderr, "", 0)
	return err
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type jsonEntry struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"msg"`
}

func log(level Level, format string, v ...any) {
	mu.Lock()
	defer mu.Unlock()
	if level < currentLevel {
		return
	}

	now := time.Now()
	message := fmt.Sprintf(format, v...)
	if jsonFormat {
		line, err := json.Marshal(jsonEntry{Time: now.Format(time.RFC3339Nano), Level: level.String(), Message: message})
		if err != nil {
			return
		}
		logger.Println(string(line))
		return
	}

	levelText := level.String()
	if color {
		levelText = level.color() + levelText + colorReset
	}
	logger.Println(fmt.Sprintf("[%s] [%s] ", now.Format(timestampLayout), levelText) + message)
}

func Debug(format string, v ...any) {
	log(LevelDebug, format, v...)
}

func Info(format string, v ...any) {
	log(LevelInfo, format, v...)
}

func Warn(format string, v ...any) {
	log(LevelWarn, format, v...)
}

func Error(format string, v ...any) {
	log(LevelError, format, v...)
}
