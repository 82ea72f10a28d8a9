package context

import (
	"github.com/rs/zerolog"

	"github.com/colhub/hubsync/internal/metrics"
	"github.com/colhub/hubsync/pkg/harvest"
	"github.com/colhub/hubsync/pkg/params"
)

// MockContext provides a mock implementation of Context for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	mock := &context.MockContext{
//	    ParamsFunc: func() (*params.Document, error) {
//	        return doc, nil
//	    },
//	    SearchersFunc: func(*params.Document) map[string]harvest.Searcher {
//	        return map[string]harvest.Searcher{"colhub": fake}
//	    },
//	}
//	cmd := harvest.NewCommand(mock)
type MockContext struct {
	ParamsFunc       func() (*params.Document, error)
	SearchersFunc    func(doc *params.Document) map[string]harvest.Searcher
	FootprintsFunc   func() harvest.FootprintSource
	MetricsFunc      func() *metrics.Recorder
	SettingsFunc     func() Settings
	NewRunIDFunc     func() string
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Params returns the document from the mock function or nil.
func (m *MockContext) Params() (*params.Document, error) {
	if m.ParamsFunc != nil {
		return m.ParamsFunc()
	}
	return nil, nil
}

// Searchers returns clients from the mock function or an empty map.
func (m *MockContext) Searchers(doc *params.Document) map[string]harvest.Searcher {
	if m.SearchersFunc != nil {
		return m.SearchersFunc(doc)
	}
	return map[string]harvest.Searcher{}
}

// Footprints returns a footprint source from the mock function or nil.
func (m *MockContext) Footprints() harvest.FootprintSource {
	if m.FootprintsFunc != nil {
		return m.FootprintsFunc()
	}
	return nil
}

// Metrics returns a recorder from the mock function or nil.
// A nil recorder is safe to use.
func (m *MockContext) Metrics() *metrics.Recorder {
	if m.MetricsFunc != nil {
		return m.MetricsFunc()
	}
	return nil
}

// Settings returns settings from the mock function or the zero value.
func (m *MockContext) Settings() Settings {
	if m.SettingsFunc != nil {
		return m.SettingsFunc()
	}
	return Settings{}
}

// NewRunID returns an id from the mock function or "test-run".
func (m *MockContext) NewRunID() string {
	if m.NewRunIDFunc != nil {
		return m.NewRunIDFunc()
	}
	return "test-run"
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *MockContext) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *MockContext) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *MockContext) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *MockContext) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *MockContext) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builder using the mock function or "unknown".
func (m *MockContext) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}

// Ensure MockContext implements Context.
var _ Context = (*MockContext)(nil)
