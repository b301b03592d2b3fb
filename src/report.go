package channelwatch

/*------------------------------------------------------------------
 *
 * Purpose:	Summarize a completed (or in-progress) simulation run:
 *		console per-channel breakdown, a markdown per-sender
 *		table, and an appendable batch-results CSV row.
 *
 * Description:	io.Writer-based formatting so callers can send a report
 *		to stdout, a file, or a pager (see cmd/channelwatch-replay).
 *		Uses github.com/lestrrat-go/strftime for timestamped result
 *		filenames.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/lestrrat-go/strftime"
)

// WriteReceiverSitePosition prints the receiver site's position as a
// UTM coordinate, the same zone/hemisphere/easting/northing line
// cmd/samoyed-ll2utm prints for a lat/lon pair. Conversion failure
// (e.g. a position outside the UTM projection's valid latitude range)
// is reported rather than treated as fatal.
func WriteReceiverSitePosition(w io.Writer, latDeg, lonDeg float64) {
	utm, err := ToUTM(latDeg, lonDeg)
	if err != nil {
		fmt.Fprintf(w, "receiver site UTM conversion failed: %s\n", err)
		return
	}
	fmt.Fprintf(w, "receiver site: UTM zone=%d hemisphere=%c easting=%.0f northing=%.0f\n",
		utm.Zone, HemisphereToRune(utm.Hemisphere), utm.Easting, utm.Northing)
}

// WriteConsoleSummary prints the aggregate and per-channel totals for
// the bank to w, matching original_source/Simulator.py's summary()
// console section.
func WriteConsoleSummary(w io.Writer, bank *ChannelBank) {
	sent, received, lost := bank.Totals()
	lostRate := 0.0
	if sent > 0 {
		lostRate = 100 * float64(lost) / float64(sent)
	}
	fmt.Fprintf(w, "total sent=%d received=%d lost=%d lost_rate=%.2f%%\n", sent, received, lost, lostRate)

	fmt.Fprintf(w, "%-8s %8s %8s %8s %10s\n", "channel", "sent", "received", "lost", "lost_rate")
	for i := 0; i < bank.Len(); i++ {
		ch, err := bank.At(i)
		if err != nil {
			continue
		}
		rate := 0.0
		if ch.Sent > 0 {
			rate = 100 * float64(ch.Lost) / float64(ch.Sent)
		}
		fmt.Fprintf(w, "%-8d %8d %8d %8d %9.2f%%\n", i, ch.Sent, ch.Received, ch.Lost, rate)
	}
}

// WriteSenderTable renders a markdown table of every sender's profile
// as last known to any of the given receivers, columns matching
// original_source/Simulator.py's summary() exactly: id,
// last_sent_timestep, send_times, last_interval, next_send_timestep,
// channel_index.
func WriteSenderTable(w io.Writer, receivers []*Receiver) {
	merged := make(map[string]*SenderProfile)
	for _, r := range receivers {
		for id, p := range r.Profiles {
			merged[id] = p
		}
	}

	ids := make([]string, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintln(w, "| id | last_sent_timestep | send_times | last_interval | next_send_timestep | channel_index |")
	fmt.Fprintln(w, "|---|---|---|---|---|---|")
	for _, id := range ids {
		p := merged[id]
		fmt.Fprintf(w, "| %s | %d | %d | %d | %d | %d |\n",
			p.ID, p.LastSentMS, p.SendTimes, p.LastInterval(), p.NextSendMS, p.ChannelIndex)
	}
}

// BatchResultRow is one line of the batch-results CSV, matching
// original_source/Simulator.py's append_results_to_csv() column order.
type BatchResultRow struct {
	NumSenders int
	Total      int
	Received   int
	Lost       int
}

// LostRatePercent computes the derived column append_results_to_csv
// stores alongside the raw counts.
func (r BatchResultRow) LostRatePercent() float64 {
	if r.Total == 0 {
		return 0
	}
	return 100 * float64(r.Lost) / float64(r.Total)
}

const csvHeader = "num_senders,total,received,lost,lost_rate_percent\n"

// AppendResultsCSV appends row to the CSV file at path, writing the
// header first only if the file does not already exist (so multiple
// batch runs accumulate into one file without duplicate headers).
func AppendResultsCSV(path string, row BatchResultRow) error {
	_, statErr := os.Stat(path)
	needsHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening results CSV %s: %w", path, err)
	}
	defer f.Close()

	if needsHeader {
		if _, err := f.WriteString(csvHeader); err != nil {
			return fmt.Errorf("writing results CSV header: %w", err)
		}
	}

	line := fmt.Sprintf("%d,%d,%d,%d,%.4f\n", row.NumSenders, row.Total, row.Received, row.Lost, row.LostRatePercent())
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("writing results CSV row: %w", err)
	}
	return nil
}

// DefaultFilenamePattern is channelwatch's own strftime pattern for a
// per-run result filename when none is configured.
const DefaultFilenamePattern = "channelwatch-%Y%m%d-%H%M%S.csv"

// FormatResultFilename renders pattern (an strftime format string)
// against t using github.com/lestrrat-go/strftime.
func FormatResultFilename(pattern string, t time.Time) (string, error) {
	if pattern == "" {
		pattern = DefaultFilenamePattern
	}
	f, err := strftime.New(pattern)
	if err != nil {
		return "", fmt.Errorf("parsing filename pattern %q: %w", pattern, err)
	}
	return f.FormatString(t), nil
}
