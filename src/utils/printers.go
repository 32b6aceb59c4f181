package utils

import (
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

const PREFIX = ""
const LONG_PREFIX = "->> "

type logger struct {
	debug bool
	mu    sync.Mutex
	out   io.Writer
}

// NewLogger returns a Logger writing to stdout
func NewLogger(debug bool) Logger {
	return NewLoggerTo(os.Stdout, debug)
}

// NewLoggerTo returns a Logger writing to w. Workers share a single logger,
// every call writes its line under a lock.
func NewLoggerTo(w io.Writer, debug bool) Logger {
	return &logger{
		debug: debug,
		out:   w,
	}
}

type Logger interface {
	PrintMessage(message string)
	PrintFormatted(format string, args ...interface{})
	PrintHeader(header string)
	PrintMemUsage(name string)
	PrintRunningTime(name string, t time.Time)
	PrintSummarizedVector(name string, vec []uint64, numElements int)
	IsDebug() bool
}

func (l *logger) IsDebug() bool {
	return l.debug
}

func (l *logger) write(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, s)
}

func (l *logger) PrintMessage(message string) {
	if l.debug {
		l.write(PREFIX + message + "\n")
	}
}

func (l *logger) PrintFormatted(format string, args ...interface{}) {
	if l.debug {
		l.write(LONG_PREFIX + fmt.Sprintf(format, args...) + "\n")
	}
}

// PrintHeader prints a nicely formatted header, auto-wrapping if too long.
func (l *logger) PrintHeader(header string) {
	const totalWidth = 80
	const padding = 4

	lines := splitIntoLines(header, totalWidth-(padding*2))

	buf := new(strings.Builder)
	buf.WriteString("\n")
	buf.WriteString(strings.Repeat("=", totalWidth) + "\n")
	for _, line := range lines {
		paddingLeft := (totalWidth - len(line)) / 2
		paddingRight := totalWidth - len(line) - paddingLeft
		buf.WriteString(strings.Repeat(" ", paddingLeft) + line + strings.Repeat(" ", paddingRight) + "\n")
	}
	buf.WriteString(strings.Repeat("=", totalWidth) + "\n")
	l.write(buf.String())
}

// splitIntoLines splits a string into multiple lines based on max width.
func splitIntoLines(text string, maxWidth int) []string {
	var lines []string
	for len(text) > maxWidth {
		splitAt := strings.LastIndex(text[:maxWidth], " ")
		if splitAt <= 0 {
			splitAt = maxWidth // no spaces found, force break
		}
		lines = append(lines, strings.TrimSpace(text[:splitAt]))
		text = strings.TrimSpace(text[splitAt:])
	}
	if len(text) > 0 {
		lines = append(lines, text)
	}
	return lines
}

// PrintMemUsage outputs the followings
// Alloc: the bytes of allocated heap objects.
// TotalAlloc: the cumulative bytes allocated for heap objects
// Sys: the total bytes of memory obtained from the OS
// For more info check: https://golang.org/pkg/runtime/#MemStats
func (l *logger) PrintMemUsage(name string) {
	if !l.debug {
		return
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	mb := 1e6
	buf := new(strings.Builder)
	fmt.Fprintf(buf, "|-> %-*s", 22, name)
	for _, v := range []float64{float64(m.Alloc) / mb, float64(m.TotalAlloc) / mb, float64(m.Sys) / mb} {
		buf.WriteByte('\t')
		prettyPrint(buf, v, "MB")
	}
	buf.WriteByte('\n')
	l.write(buf.String())
}

func (l *logger) PrintRunningTime(name string, t time.Time) {
	l.write(fmt.Sprintf("%s%s running time: %f (s)\n", PREFIX, name, time.Since(t).Seconds()))
}

// Helps to print the MemStats
func prettyPrint(w io.Writer, x float64, unit string) {
	var format string
	switch y := math.Abs(x); {
	case y == 0 || y >= 0.99995:
		format = "%10.3f %s"
	case y >= 0.099995:
		format = "%15.4f %s"
	case y >= 0.0099995:
		format = "%16.5f %s"
	case y >= 0.00099995:
		format = "%17.6f %s"
	default:
		format = "%18.7f %s"
	}
	fmt.Fprintf(w, format, x, unit)
}

// PrintSummarizedVector prints a summarized view of a vector
func (l *logger) PrintSummarizedVector(name string, vec []uint64, numElements int) {
	if !l.debug {
		return
	}
	const summaryLength = 4
	if len(vec) == 0 {
		l.write(PREFIX + "Vector is empty!\n")
		return
	}
	numElements = min(numElements, len(vec))

	buf := new(strings.Builder)
	fmt.Fprintf(buf, "[%s]: {", name)
	if numElements > 2*summaryLength {
		for i := 0; i < summaryLength; i++ {
			fmt.Fprintf(buf, "%d ", vec[i])
		}
		buf.WriteString("... ")
		for i := numElements - summaryLength; i < numElements; i++ {
			fmt.Fprintf(buf, "%d ", vec[i])
		}
	} else {
		for i := 0; i < numElements; i++ {
			fmt.Fprintf(buf, "%d ", vec[i])
		}
	}
	buf.WriteString("}\n")
	l.write(buf.String())
}
