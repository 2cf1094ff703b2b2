package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	exports            map[string]int
	exportMessages     []int
	exportDurations    []float64
	imports            map[string]int
	playersImported    map[string]int
	playersDropped     map[string]int
	playersSkipped     map[string]int
	chatMessagesSent   int
	chatMessagesFailed int
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		exports:         make(map[string]int),
		exportMessages:  make([]int, 0),
		exportDurations: make([]float64, 0),
		imports:         make(map[string]int),
		playersImported: make(map[string]int),
		playersDropped:  make(map[string]int),
		playersSkipped:  make(map[string]int),
	}
}

func (m *Mock) IncExports(board string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exports[board]++
}

func (m *Mock) ObserveExportMessages(board string, messages int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exportMessages = append(m.exportMessages, messages)
}

func (m *Mock) ObserveExportDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exportDurations = append(m.exportDurations, duration)
}

func (m *Mock) IncImports(board string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imports[board]++
}

func (m *Mock) AddPlayersImported(board string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playersImported[board] += n
}

func (m *Mock) AddPlayersDropped(board string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playersDropped[board] += n
}

func (m *Mock) AddPlayersSkipped(board string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playersSkipped[board] += n
}

func (m *Mock) IncChatMessagesSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatMessagesSent++
}

func (m *Mock) IncChatMessagesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatMessagesFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// Exports returns how often IncExports was called for a board.
func (m *Mock) Exports(board string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exports[board]
}

// ExportMessages returns every observed message count in call order.
func (m *Mock) ExportMessages() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.exportMessages...)
}

// Imports returns how often IncImports was called for a board.
func (m *Mock) Imports(board string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.imports[board]
}

// PlayersImported returns the imported player total for a board.
func (m *Mock) PlayersImported(board string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playersImported[board]
}

// PlayersDropped returns the dropped player total for a board.
func (m *Mock) PlayersDropped(board string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playersDropped[board]
}

// PlayersSkipped returns the number of players imports could not write.
func (m *Mock) PlayersSkipped(board string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playersSkipped[board]
}

// ChatMessagesSent returns the number of times IncChatMessagesSent was called.
func (m *Mock) ChatMessagesSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chatMessagesSent
}

// ChatMessagesFailed returns the number of times IncChatMessagesFailed was called.
func (m *Mock) ChatMessagesFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chatMessagesFailed
}

// StartupTime returns the last value passed to SetStartupTime.
func (m *Mock) StartupTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startupTime
}
