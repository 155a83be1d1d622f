// Package model defines shared data structures.
package model

// Config defines practice settings.
type Config struct {
	File     string
	Lines    int
	Details  bool
	Review   bool
	LogFile  string
	LogLevel string
}
