package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"silhouette/internal/jobs"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func statusLabel(status jobs.Status) string {
	return cases.Title(language.Und).String(string(status))
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	if len(headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, len(headers))
	for i := range configs {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func renderJobTable(list []jobs.Job) string {
	rows := make([][]string, 0, len(list))
	for _, job := range list {
		rows = append(rows, []string{
			strconv.FormatInt(job.Seq, 10),
			job.ShortID(),
			job.Source.Name,
			statusLabel(job.Status),
			fmt.Sprintf("%d%%", job.Progress),
			job.FailureReason,
		})
	}
	return renderTable(
		[]string{"#", "ID", "Name", "Status", "Progress", "Failure"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func renderStatsTable(stats jobs.Stats) string {
	rows := [][]string{
		{statusLabel(jobs.StatusPending), strconv.Itoa(stats.Pending)},
		{statusLabel(jobs.StatusProcessing), strconv.Itoa(stats.Processing)},
		{statusLabel(jobs.StatusCompleted), strconv.Itoa(stats.Completed)},
		{statusLabel(jobs.StatusFailed), strconv.Itoa(stats.Failed)},
		{"Total", strconv.Itoa(stats.Total)},
	}
	return renderTable([]string{"Status", "Jobs"}, rows, []columnAlignment{alignLeft, alignRight})
}
