// Package tracing provides AWS X-Ray distributed tracing integration.
package tracing

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/aws/aws-xray-sdk-go/xraylog"
	"github.com/sirupsen/logrus"
)

// Config contains X-Ray configuration.
type Config struct {
	ServiceName string
	Enabled     bool
	DaemonAddr  string
}

// Logger adapter for X-Ray SDK.
type xrayLoggerAdapter struct {
	logger *logrus.Logger
}

func (l *xrayLoggerAdapter) Log(level xraylog.LogLevel, msg fmt.Stringer) {
	switch level {
	case xraylog.LogLevelDebug:
		l.logger.Debug(msg.String())
	case xraylog.LogLevelInfo:
		l.logger.Info(msg.String())
	case xraylog.LogLevelWarn:
		l.logger.Warn(msg.String())
	case xraylog.LogLevelError:
		l.logger.Error(msg.String())
	}
}

// Initialize initializes AWS X-Ray with the given configuration.
func Initialize(cfg Config, logger *logrus.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	xray.SetLogger(&xrayLoggerAdapter{logger: logger})

	if err := xray.Configure(xray.Config{
		DaemonAddr: cfg.DaemonAddr,
	}); err != nil {
		return fmt.Errorf("failed to configure X-Ray: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"daemon_addr":  cfg.DaemonAddr,
		"service_name": cfg.ServiceName,
	}).Info("AWS X-Ray initialized")

	return nil
}

// Middleware wraps an HTTP handler in an X-Ray segment named after the
// service. When tracing is disabled the handler is returned unwrapped.
func Middleware(cfg Config, h http.Handler) http.Handler {
	if !cfg.Enabled {
		return h
	}
	return xray.Handler(xray.NewFixedSegmentNamer(cfg.ServiceName), h)
}

// StartSubsegment starts a new X-Ray subsegment around one unit of work,
// such as a provider fetch or a rating fit. Outside a traced request it
// returns the context unchanged and a nil segment.
func StartSubsegment(ctx context.Context, name string) (context.Context, *xray.Segment) {
	if xray.GetSegment(ctx) == nil {
		return ctx, nil
	}
	return xray.BeginSubsegment(ctx, name)
}

// CloseSubsegment closes a subsegment started with StartSubsegment,
// recording err when non-nil. Safe to call with a nil segment.
func CloseSubsegment(seg *xray.Segment, err error) {
	if seg != nil {
		seg.Close(err)
	}
}

// AddAnnotation adds an indexed annotation to the current segment.
func AddAnnotation(ctx context.Context, key string, value interface{}) {
	if seg := xray.GetSegment(ctx); seg != nil {
		seg.AddAnnotation(key, value)
	}
}
