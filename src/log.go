package channelwatch

/*------------------------------------------------------------------
 *
 * Purpose:	Structured logging for the simulator and its receivers.
 *
 * Description:	github.com/charmbracelet/log is declared in this
 *		module's dependency stack but never actually wired into
 *		source in the retrieved teacher pack; this is where it
 *		gets a home. Every component that wants to log takes a
 *		*log.Logger rather than reaching for a package-level
 *		global, so tests can inject log.New(io.Discard).
 *
 *------------------------------------------------------------------*/

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewDiscardLogger returns a logger that writes nowhere, for tests and
// for any caller that doesn't want simulation chatter.
func NewDiscardLogger() *log.Logger {
	return log.New(io.Discard)
}

// NewLogger returns a logger writing to w at the given level, with
// millisecond timestamps. It adds no component key of its own; a
// component logger adds one via .With() (see Receiver.logf).
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
	})
	l.SetLevel(level)
	return l
}
