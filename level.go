// Copyright 2009 The Go Authors. All rights reserved.
//
// Changes Copyright 2012, Sudhi Herle <sudhi -at- herle.net>
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alogger

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is a totally ordered log severity. Producers compare against a
// Logger's aggregate level to decide, cheaply, whether a record is worth
// constructing at all.
type Level int

const (
	None Level = iota
	Error
	Warning
	Info
	Verbose
	Debug
	Debug2

	levelMax
)

// levelToken holds the fixed-width, space-padded token used inside
// prefix3. The trailing spaces matter: fill3 appends the token verbatim,
// and padding every token to 8 bytes keeps the LWP column aligned.
var levelToken = map[Level]string{
	None:    "NONE    ",
	Error:   "ERROR   ",
	Warning: "WARNING ",
	Info:    "INFO    ",
	Verbose: "VERBOSE ",
	Debug:   "DEBUG   ",
	Debug2:  "DEBUG2  ",
}

var levelLower = map[Level]string{
	None:    "none",
	Error:   "error",
	Warning: "warning",
	Info:    "info",
	Verbose: "verbose",
	Debug:   "debug",
	Debug2:  "debug2",
}

var lowerLevel = map[string]Level{
	"none":    None,
	"error":   Error,
	"warning": Warning,
	"info":    Info,
	"verbose": Verbose,
	"debug":   Debug,
	"debug2":  Debug2,
}

func (l Level) String() string {
	if s, ok := levelLower[l]; ok {
		return s
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// LevelFromString maps a lowercase level token to a Level. Tokens that
// aren't recognized map to Info, matching the reference implementation's
// fallback.
func LevelFromString(s string) Level {
	if l, ok := lowerLevel[strings.ToLower(s)]; ok {
		return l
	}
	return Info
}

// LevelToString is the inverse of LevelFromString.
func LevelToString(l Level) string {
	return l.String()
}

// Round formats value with signs digits after the decimal point, for
// log-friendly float rendering (e.g. latencies, ratios) without dragging a
// full fmt verb into every call site.
func Round(value float64, signs int) string {
	if signs < 0 {
		signs = 0
	}
	return strconv.FormatFloat(value, 'f', signs, 64)
}
