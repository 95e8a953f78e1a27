// Package runner executes Python and MEL scripts picked in Code Wall.
//
// A Runner takes a Script (path plus detected Language) and returns the
// combined output and exit status. LocalRunner shells out to configured
// interpreters; the bridge package provides a Runner that forwards scripts to
// a running host application instead.
package runner
