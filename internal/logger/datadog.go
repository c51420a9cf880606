package logger

import (
	"context"
	"os"
	"time"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	dataDogSubmitLogOperation = "v2.LogsApi.SubmitLog"
	dataDogDefaultTimeout     = 5 * time.Second
	dataDogSource             = "zerolog"
)

// DataDogWriter ships zerolog json lines to the datadog logs intake.
// It implements zerolog.LevelWriter so only lines at or above MinLevel are sent.
type DataDogWriter struct {
	api      *datadogV2.LogsApi
	ctx      context.Context //nolint:containedctx
	cfg      DataDog
	hostname string
	minLevel zerolog.Level
}

// NewDataDogWriter creates a writer for the given datadog config.
func NewDataDogWriter(cfg DataDog) (*DataDogWriter, error) {
	if cfg.APIKey == "" {
		return nil, ErrDataDogAPIKeyIsEmpty
	}

	minLevel := zerolog.WarnLevel

	if cfg.MinLevel != "" {
		var err error

		if minLevel, err = zerolog.ParseLevel(cfg.MinLevel); err != nil {
			return nil, errors.Wrap(err, "datadog min level "+cfg.MinLevel+" is not supported")
		}
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = dataDogDefaultTimeout
	}

	configuration := datadog.NewConfiguration()

	if cfg.URL != "" {
		if configuration.OperationServers == nil {
			configuration.OperationServers = map[string]datadog.ServerConfigurations{}
		}

		configuration.OperationServers[dataDogSubmitLogOperation] = datadog.ServerConfigurations{
			{URL: cfg.URL, Description: "custom intake"},
		}
	}

	ctx := context.WithValue(
		context.Background(),
		datadog.ContextAPIKeys,
		map[string]datadog.APIKey{
			"apiKeyAuth": {Key: cfg.APIKey},
		},
	)

	if cfg.Site != "" {
		ctx = context.WithValue(ctx, datadog.ContextServerVariables, map[string]string{"site": cfg.Site})
	}

	hostname, _ := os.Hostname()

	return &DataDogWriter{
		api:      datadogV2.NewLogsApi(datadog.NewAPIClient(configuration)),
		ctx:      ctx,
		cfg:      cfg,
		hostname: hostname,
		minLevel: minLevel,
	}, nil
}

// Write sends one log line regardless of its level.
func (w *DataDogWriter) Write(p []byte) (int, error) {
	ctx, cancel := context.WithTimeout(w.ctx, w.cfg.Timeout)
	defer cancel()

	item := datadogV2.HTTPLogItem{
		Ddsource: datadog.PtrString(dataDogSource),
		Hostname: datadog.PtrString(w.hostname),
		Message:  string(p),
		Service:  datadog.PtrString(w.cfg.ServiceName),
	}

	_, _, err := w.api.SubmitLog(ctx, []datadogV2.HTTPLogItem{item}, *datadogV2.NewSubmitLogOptionalParameters())
	if err != nil {
		return 0, errors.Wrap(err, "failed to submit log to datadog")
	}

	return len(p), nil
}

// WriteLevel drops lines below the configured level.
func (w *DataDogWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < w.minLevel || l == zerolog.NoLevel {
		return len(p), nil
	}

	return w.Write(p)
}
