package ports

// Logger is the minimal logging surface the services need.
type Logger interface {
	Debug(message string)
	Error(message string)
}
