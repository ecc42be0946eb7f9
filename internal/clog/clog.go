// Package clog provides a very very very simplistic debug logger, the
// direct successor to sseserver's own internal/debug package once it
// dropped azer/debug — extended with structured fields, since comet's
// debug lines are almost always "something happened to channel X" and a
// bare Sprintf chain loses that structure once it hits a log aggregator.
package clog

import (
	"fmt"
	"log"
	"os"
	"path"
	"runtime"
	"strings"
)

// Enabled toggles debug output, set from the COMETD_DEBUG environment
// variable at process start.
var Enabled = os.Getenv("COMETD_DEBUG") != ""

// Field is a single piece of structured context attached to a debug
// line, e.g. the channel name or a subscriber count.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field. Typical use: clog.Debug("sub: parked", clog.F("cname", cname), clog.F("subs", n)).
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Debug logs msg plus any fields, tagging the line with the calling
// file, if debug logging is enabled. Building fields is cheap enough to
// leave unconditional at call sites; only the formatting and log.Println
// are skipped when disabled.
func Debug(msg string, fields ...Field) {
	if !Enabled {
		return
	}
	var b strings.Builder
	b.WriteString("DEBUG(")
	b.WriteString(caller())
	b.WriteString("): ")
	b.WriteString(msg)
	for _, f := range fields {
		b.WriteByte(' ')
		b.WriteString(f.Key)
		b.WriteByte('=')
		fmt.Fprint(&b, f.Value)
	}
	log.Println(b.String())
}

func caller() string {
	_, filename, _, _ := runtime.Caller(2)
	return strings.Split(path.Base(filename), ".")[0]
}
