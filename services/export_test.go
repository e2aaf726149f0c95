package services

// Aliases so external test packages can reference the unexported paging limits.
const (
	DefaultHistoryPageForTest = defaultHistoryPage
	MaxHistoryPageForTest     = maxHistoryPage
)
