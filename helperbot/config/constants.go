package config

import "time"

// UI constants.
const (
	RemindersPerPage = 10

	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00

	EmbedDefaultColor = 0x2B2D31
)

// Timeouts.
const (
	DefaultQueryTimeout     = 30 * time.Second
	CommandExecutionTimeout = 10 * time.Second
	MessagePipelineTimeout  = 15 * time.Second
	ReplyTimeout            = 5 * time.Second
)
