package infra

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nrad-K/livehouse-crawler/internal/constants"
	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
)

// ScheduleRowは、CSVに出力する1公演分のデータです。
type ScheduleRow struct {
	LiveHouseName string
	Schedule      model.Schedule
	Performers    []string
}

type FileExporter interface {
	Write(row ScheduleRow) error
	Close() error
}

type CSVExporter struct {
	file   *os.File
	writer *csv.Writer
}

func formatIntPtr(p *int) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%d", *p)
}

func NewCSVExporter(filePath string) (*CSVExporter, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("CSVファイルの作成に失敗しました: %w", err)
	}

	writer := csv.NewWriter(file)

	if err := writer.Write(constants.ScheduleCSVHeaders); err != nil {
		return nil, fmt.Errorf("CSVヘッダーの書き込みに失敗しました: %w", err)
	}

	return &CSVExporter{
		file:   file,
		writer: writer,
	}, nil
}

func (c *CSVExporter) Write(row ScheduleRow) error {
	record := []string{
		row.LiveHouseName,
		row.Schedule.Date.Format("2006-01-02"),
		row.Schedule.OpenTime,
		row.Schedule.StartTime,
		row.Schedule.PerformanceName,
		strings.Join(row.Performers, " / "),
		formatIntPtr(row.Schedule.PresalePrice),
		formatIntPtr(row.Schedule.DoorPrice),
	}

	return c.writer.Write(record)
}

func (c *CSVExporter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
