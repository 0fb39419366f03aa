// Package console renders a finished collection run for people watching the terminal.
package console

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/juan-malbeclabs/solana/collector"
)

// Summary accumulates run events and renders them as a table
type Summary struct {
	report   collector.Report
	exported []collector.Exported
	err      error
}

// Handle records the events the summary shows; others are ignored
func (s *Summary) Handle(ev collector.Event) {
	switch e := ev.(type) {
	case collector.RunStarted:
		s.report.RunID = e.RunID
	case collector.TopologyFetched:
		s.report.Gossip, s.report.Validators = e.Gossip, e.Validators
	case collector.Joined:
		s.report.Merged, s.report.Staked = e.Merged, e.Staked
	case collector.Exported:
		s.exported = append(s.exported, e)
	case collector.RunCompleted:
		s.report = e.Report
	case collector.RunFailed:
		s.err = e.Err
	}
}

// Render writes the summary to w
func (s *Summary) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Title.Align = text.AlignCenter
	t.Style().Format.Footer = text.FormatDefault
	t.SetTitle("Validator collection")
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})

	t.AppendHeader(table.Row{"Stage", "Records"})
	// full run id on one line
	t.AppendRow(table.Row{"Run", s.report.RunID.String()})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Gossip nodes", s.report.Gossip},
		{"Validators", s.report.Validators},
		{"Merged", s.report.Merged},
		{"Staked", s.report.Staked},
	})

	t.AppendSeparator()
	for _, e := range s.exported {
		t.AppendRow(table.Row{"Exported to " + e.Exporter, e.Rows})
	}

	if s.err != nil {
		t.AppendFooter(table.Row{"Failed", s.err.Error()})
	} else {
		t.AppendFooter(table.Row{"Duration", s.report.Duration.Round(time.Millisecond).String()})
	}

	t.Render()
}
