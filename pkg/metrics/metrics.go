package metrics

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Counter names used by the mock OCS and the client.
const (
	CCRInitialReceived   = "ccr_initial_received"
	CCRUpdateReceived    = "ccr_update_received"
	CCRTerminateReceived = "ccr_terminate_received"
	CCREventReceived     = "ccr_event_received"
	CCASent              = "cca_sent"
	ParseErrors          = "parse_errors"
	BuildErrors          = "build_errors"
	TransportErrors      = "transport_errors"
)

// ExchangeMetrics tracks named counters across a Credit-Control exchange.
type ExchangeMetrics struct {
	counters map[string]*atomic.Uint64
	mu       sync.RWMutex
}

// NewExchangeMetrics creates a new ExchangeMetrics instance
func NewExchangeMetrics() *ExchangeMetrics {
	return &ExchangeMetrics{
		counters: make(map[string]*atomic.Uint64),
	}
}

// Increment increments the named counter, creating it on first use.
func (m *ExchangeMetrics) Increment(name string) {
	m.mu.Lock()
	counter, exists := m.counters[name]
	if !exists {
		counter = &atomic.Uint64{}
		m.counters[name] = counter
	}
	m.mu.Unlock()
	counter.Add(1)
}

// Get returns the count for a named counter
func (m *ExchangeMetrics) Get(name string) uint64 {
	m.mu.RLock()
	counter, exists := m.counters[name]
	m.mu.RUnlock()

	if !exists {
		return 0
	}
	return counter.Load()
}

// GetAll returns a snapshot of all counters
func (m *ExchangeMetrics) GetAll() map[string]uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]uint64)
	for name, counter := range m.counters {
		result[name] = counter.Load()
	}
	return result
}

// Reset clears all counters
func (m *ExchangeMetrics) Reset() {
	m.mu.Lock()
	m.counters = make(map[string]*atomic.Uint64)
	m.mu.Unlock()
}

// RequestCounterName maps a CC-Request-Type wire value to its counter name.
func RequestCounterName(requestType int32) string {
	switch requestType {
	case 1:
		return CCRInitialReceived
	case 2:
		return CCRUpdateReceived
	case 3:
		return CCRTerminateReceived
	case 4:
		return CCREventReceived
	default:
		return fmt.Sprintf("ccr_type_%d_received", requestType)
	}
}

// FormatMetrics formats the counters for display
func FormatMetrics(title string, metrics *ExchangeMetrics) string {
	var output string
	counters := metrics.GetAll()

	output = fmt.Sprintf("\n%s:\n", title)
	output += "┌─────────────────────────────────┬───────────┐\n"
	output += "│ Counter                         │ Count     │\n"
	output += "├─────────────────────────────────┼───────────┤\n"

	total := uint64(0)
	for name, count := range counters {
		output += fmt.Sprintf("│ %-31s │ %9d │\n", name, count)
		total += count
	}

	output += "├─────────────────────────────────┼───────────┤\n"
	output += fmt.Sprintf("│ %-31s │ %9d │\n", "TOTAL", total)
	output += "└─────────────────────────────────┴───────────┘\n"

	return output
}

// CompactMetrics formats the counters in a compact single line
func CompactMetrics(title string, metrics *ExchangeMetrics) string {
	output := fmt.Sprintf("%s: ", title)
	counters := metrics.GetAll()
	total := uint64(0)

	for name, count := range counters {
		if count > 0 {
			output += fmt.Sprintf("[%s=%d] ", name, count)
			total += count
		}
	}

	output += fmt.Sprintf("(Total=%d)", total)
	return output
}
