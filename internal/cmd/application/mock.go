// Package application provides a mock of the command application interface.
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/techmarket"
	app "github.com/agentstation/techmarket/cmd/application"
)

// Mock provides a mock implementation of application.Application for testing.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	svc, _ := techmarket.New(techmarket.WithStore(store))
//	mock := &application.Mock{
//	    ServiceFunc: func() (*techmarket.Service, error) { return svc, nil },
//	}
//	cmd := list.NewCommand(mock)
type Mock struct {
	ServiceFunc      func() (*techmarket.Service, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Service returns the service using the mock function or nil.
func (m *Mock) Service() (*techmarket.Service, error) {
	if m.ServiceFunc != nil {
		return m.ServiceFunc()
	}
	return nil, nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ app.Application = (*Mock)(nil)
