package utils

import "github.com/stretchr/testify/mock"

// MockLogger records calls through testify/mock. Expectations are optional:
// callers that only want counts can read ErrorCallCount and WarnCallCount.
type MockLogger struct {
	mock.Mock
	ErrorCallCount   int
	WarnCallCount    int
	LastErrorMessage string
	LastWarnMessage  string
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) {
	m.record("Debug", msg, keysAndValues)
}

func (m *MockLogger) Info(msg string, keysAndValues ...any) {
	m.record("Info", msg, keysAndValues)
}

func (m *MockLogger) Warn(msg string, keysAndValues ...any) {
	m.WarnCallCount++
	m.LastWarnMessage = msg
	m.record("Warn", msg, keysAndValues)
}

func (m *MockLogger) Error(msg string, keysAndValues ...any) {
	m.ErrorCallCount++
	m.LastErrorMessage = msg
	m.record("Error", msg, keysAndValues)
}

func (m *MockLogger) SetLevel(level LogLevel) {
	if m.hasExpectation("SetLevel") {
		m.Called(level)
	}
}

func (m *MockLogger) record(method, msg string, keysAndValues []any) {
	if m.hasExpectation(method) {
		m.MethodCalled(method, msg, keysAndValues)
	}
}

func (m *MockLogger) hasExpectation(method string) bool {
	for _, call := range m.ExpectedCalls {
		if call.Method == method {
			return true
		}
	}
	return false
}
