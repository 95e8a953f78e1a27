// Package ui renders the styled output of the codewall commands.
//
// It provides a Printer for result boxes and folder listings, and
// LineDialogs, a line-based implementation of the wall dialogs used when
// commands such as "codewall rename" run outside the interactive wall.
//
// Logging is controlled by the CODEWALL_LOG_LEVEL environment variable. When
// it is unset zap is silent, so only the curated output reaches the terminal.
package ui
