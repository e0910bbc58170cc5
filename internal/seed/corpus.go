package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"go-paper-ledger/internal/model"
	"go-paper-ledger/internal/repository"

	"github.com/shopspring/decimal"
)

// Inquiry dates in the sample file are written month/day/two-digit-year.
const inquiryDateLayout = "1/2/06"

// Matches 'key': 'value' pairs of a serialized metadata dict, with either quote style.
var metadataPair = regexp.MustCompile(`['"](\w+)['"]\s*:\s*['"]([^'"]*)['"]`)

type CorpusFiles struct {
	Quotes         string
	QuoteRequests  string
	SampleRequests string
}

// LoadCorpus fills the quote history and inquiry tables from CSV files when
// they are empty. Missing files are skipped.
func LoadCorpus(ctx context.Context, repo repository.QuoteRepository, files CorpusFiles, orderDate string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	count, err := repo.CountHistory(ctx)
	if err != nil {
		return err
	}
	if count == 0 && files.Quotes != "" && files.QuoteRequests != "" {
		records, err := readQuoteHistory(files.Quotes, files.QuoteRequests, orderDate)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Warn("quote history files missing, history left empty", "error", err)
		case err != nil:
			return err
		default:
			if err := repo.SaveHistory(ctx, records); err != nil {
				return fmt.Errorf("save quote history: %w", err)
			}
			logger.Info("quote history loaded", "records", len(records))
		}
	}

	existing, err := repo.FindInquiries(ctx)
	if err != nil {
		return err
	}
	if len(existing) == 0 && files.SampleRequests != "" {
		inquiries, err := readInquiries(files.SampleRequests)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Warn("sample request file missing", "error", err)
		case err != nil:
			return err
		default:
			if err := repo.SaveInquiries(ctx, inquiries); err != nil {
				return fmt.Errorf("save inquiries: %w", err)
			}
			logger.Info("sample requests loaded", "records", len(inquiries))
		}
	}
	return nil
}

func readQuoteHistory(quotesPath, requestsPath, orderDate string) ([]model.QuoteRecord, error) {
	requests, err := readCSV(requestsPath)
	if err != nil {
		return nil, err
	}
	quotes, err := readCSV(quotesPath)
	if err != nil {
		return nil, err
	}
	return ParseQuoteHistory(quotes, requests, orderDate), nil
}

// ParseQuoteHistory joins quote rows with request rows by position. Each quote
// is stamped with orderDate; request_metadata is unpacked into its fields.
func ParseQuoteHistory(quotes, requests []map[string]string, orderDate string) []model.QuoteRecord {
	records := make([]model.QuoteRecord, 0, len(quotes))
	for i, q := range quotes {
		record := model.QuoteRecord{
			RequestID:        i + 1,
			QuoteExplanation: q["quote_explanation"],
			OrderDate:        orderDate,
			TotalAmount:      decimal.Zero,
		}
		if amount, err := decimal.NewFromString(strings.TrimSpace(q["total_amount"])); err == nil {
			record.TotalAmount = amount
		}
		if i < len(requests) {
			record.OriginalRequest = requests[i]["response"]
		}
		meta := parseMetadata(q["request_metadata"])
		record.JobType = meta["job_type"]
		record.OrderSize = meta["order_size"]
		record.EventType = meta["event_type"]
		records = append(records, record)
	}
	return records
}

func parseMetadata(raw string) map[string]string {
	meta := make(map[string]string)
	for _, m := range metadataPair.FindAllStringSubmatch(raw, -1) {
		meta[m[1]] = m[2]
	}
	return meta
}

func readInquiries(path string) ([]model.CustomerInquiry, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	return ParseInquiries(rows), nil
}

// ParseInquiries drops rows whose request_date cannot be parsed and returns
// the rest sorted by date, keeping file order within a day.
func ParseInquiries(rows []map[string]string) []model.CustomerInquiry {
	var inquiries []model.CustomerInquiry
	for _, row := range rows {
		day, err := time.Parse(inquiryDateLayout, strings.TrimSpace(row["request_date"]))
		if err != nil {
			continue
		}
		inquiries = append(inquiries, model.CustomerInquiry{
			Job:         row["job"],
			Event:       row["event"],
			Request:     row["request"],
			RequestDate: model.FormatDate(day),
		})
	}
	sort.SliceStable(inquiries, func(i, j int) bool {
		return inquiries[i].RequestDate < inquiries[j].RequestDate
	})
	return inquiries
}

// readCSV returns the rows of a headed CSV file keyed by column name.
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseCSV(f)
}

func parseCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
