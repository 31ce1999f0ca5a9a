package logging

import (
	"io"
	"os"
	"strings"

	"github.com/2beens/fitdiet/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStderr      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures the global logrus logger. The returned io.Closer flushes
// sentry and closes the log file, and is safe to call when neither is used.
func Setup(params LoggerSetupParams) io.Closer {
	closer := &closer{}

	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if params.SentryEnabled {
		err := sentry.Init(sentry.ClientOptions{
			Environment:      params.Environment,
			Dsn:              params.SentryDSN,
			TracesSampleRate: 1.0,
			ServerName:       params.SentryServerName,
		})
		if err != nil {
			logrus.Errorf("sentry.Init: %s", err)
		} else {
			logrus.AddHook(NewSentryHook([]logrus.Level{
				logrus.PanicLevel,
				logrus.FatalLevel,
				logrus.ErrorLevel,
			}))
			closer.sentryOn = true
			logrus.Infoln("Sentry set up successfully")
		}
	}

	logrus.SetLevel(GetLevel(params.LogLevel))

	if params.LogFileName == "" {
		logrus.SetOutput(os.Stderr)
		logrus.Debugln("writing logs only to STDERR")
		return closer
	}

	if !strings.HasSuffix(params.LogFileName, ".log") {
		params.LogFileName += ".log"
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   params.LogFileName,
		MaxSize:    20, // megabytes
		MaxBackups: 5,
		LocalTime:  false, // false -> use UTC
		Compress:   true,
	}
	closer.file = lumberJackLogger

	if params.LogToStderr {
		logrus.SetOutput(
			pkg.NewCombinedWriter(os.Stderr, lumberJackLogger),
		)
		logrus.Debugln("writing logs to file and STDERR")
	} else {
		logrus.SetOutput(lumberJackLogger)
	}

	return closer
}

func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "info":
		return logrus.InfoLevel
	case "trace":
		return logrus.TraceLevel
	case "warn", "warning":
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}

type closer struct {
	sentryOn bool
	file     io.Closer
}

func (c *closer) Close() error {
	if c.sentryOn {
		sentry.Flush(sentryFlushTimeout)
	}
	if c.file != nil {
		logrus.SetOutput(os.Stderr)
		return c.file.Close()
	}
	return nil
}
