package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/LovationAdmin/expense-api/metrics"
	"github.com/LovationAdmin/expense-api/models"
	"github.com/LovationAdmin/expense-api/utils"
)

// DefaultExtractionTimeout bounds a single call to the text generator.
const DefaultExtractionTimeout = 10 * time.Second

// ExpenseExtractor turns a brief into structured fields. Implementations
// never fail; they degrade to Fallback instead.
type ExpenseExtractor interface {
	Extract(ctx context.Context, brief string) models.Extraction
}

// Extractor asks a TextGenerator for item name, amount and category and reads
// them back out of the free-text answer.
type Extractor struct {
	generator TextGenerator
	timeout   time.Duration
}

func NewExtractor(generator TextGenerator, timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = DefaultExtractionTimeout
	}
	return &Extractor{generator: generator, timeout: timeout}
}

// Fallback is the record used whenever extraction cannot produce an answer.
func Fallback(brief string) models.Extraction {
	return models.Extraction{ItemName: brief, ExpenseAmount: 0, Category: models.CategoryMisc}
}

// Extract makes exactly one generator call. Errors, timeouts, empty answers
// and panics all resolve to Fallback(brief).
func (e *Extractor) Extract(ctx context.Context, brief string) (result models.Extraction) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[Extractor] generator panicked", "panic", fmt.Sprint(r))
			metrics.Extractions.WithLabelValues(metrics.OutcomeFallback).Inc()
			result = Fallback(brief)
		}
	}()

	if e.generator == nil {
		metrics.Extractions.WithLabelValues(metrics.OutcomeFallback).Inc()
		return Fallback(brief)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	text, err := e.generator.GenerateText(ctx, BuildExpensePrompt(brief))
	if err == nil && strings.TrimSpace(text) == "" {
		err = fmt.Errorf("empty response text")
	}
	if err != nil {
		slog.Warn("[Extractor] falling back to default categorization",
			"brief", utils.MaskString(brief), "error", err)
		metrics.Extractions.WithLabelValues(metrics.OutcomeFallback).Inc()
		return Fallback(brief)
	}

	metrics.Extractions.WithLabelValues(metrics.OutcomeParsed).Inc()
	return ParseExtraction(text, brief)
}

// BuildExpensePrompt asks for the three labelled fields, restricting the
// category to the fixed list.
func BuildExpensePrompt(brief string) string {
	return fmt.Sprintf(`Extract the following details from this expense description (correct spellings also):
- **Item Name**
- **Expense Amount** (in numerical format)
- **Category** (choose only from: %s)

Answer with one line per field, formatted as "**Field:** value".

Description: %s`, strings.Join(models.CategoryNames(), ", "), brief)
}

// The labels may be wrapped in markdown bold on either side of the colon,
// e.g. "**Item Name:** Coffee" or "- **Item Name**: Coffee".
var (
	itemNameRe = regexp.MustCompile(`(?im)item\s+name\**\s*:\s*\**[ \t]*(.+)$`)
	amountRe   = regexp.MustCompile(`(?im)expense\s+amount\**\s*:\s*\**[^\d\n]*?(\d[\d,]*(?:\.\d+)?)`)
	categoryRe = regexp.MustCompile(`(?im)category\**\s*:\s*\**[ \t]*([a-z][a-z \t]*)`)
)

// ParseExtraction reads the labelled fields out of text. Each field is
// optional: a missing item name becomes brief, a missing or non-numeric
// amount becomes 0 and a missing or unknown category becomes misc.
func ParseExtraction(text, brief string) models.Extraction {
	result := Fallback(brief)

	if name, ok := matchField(itemNameRe, text); ok {
		result.ItemName = name
	}
	if raw, ok := matchField(amountRe, text); ok {
		if amount, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64); err == nil && amount >= 0 {
			result.ExpenseAmount = amount
		}
	}
	if raw, ok := matchField(categoryRe, text); ok {
		result.Category = models.NormalizeCategory(raw)
	}
	return result
}

func matchField(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	value := strings.Trim(m[1], "* \t\r")
	return value, value != ""
}
