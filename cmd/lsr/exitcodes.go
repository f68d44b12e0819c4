package main

// Exit codes shared by all lsr commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing config, unknown project)
	ExitDataError   = 3 // Data error (malformed input, validation failure)
	ExitFetchError  = 4 // Remote service failure (PubMed, OpenAlex, arXiv)
)
