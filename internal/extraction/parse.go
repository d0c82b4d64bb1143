package extraction

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MaxInputChars bounds the document text sent to the extraction capability.
const MaxInputChars = 8000

var ErrNoJSONObject = errors.New("no json object in response")

// Parse reads a Result from a free-form response. It takes the substring between
// the first '{' and the last '}' and decodes it, ignoring any surrounding prose.
// Fields of an unexpected type are dropped one by one; only invalid JSON fails.
func Parse(raw string) (Result, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return Result{}, ErrNoJSONObject
	}
	obj, err := decodeObject([]byte(raw[start : end+1]))
	if err != nil {
		return Result{}, fmt.Errorf("decode extraction result: %w", err)
	}
	return fromObject(obj), nil
}

func decodeObject(b []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after object")
	}
	return obj, nil
}

func fromObject(obj map[string]any) Result {
	r := Neutral()
	r.Borrower = optString(obj["borrower"])
	r.FacilityAmount = optAmount(obj["facility_amount"])
	r.Currency = optString(obj["currency"])
	r.Margin = optString(obj["margin"])
	r.MaturityDate = optString(obj["maturity_date"])
	r.AgentBank = optString(obj["agent_bank"])
	r.LoanType = optString(obj["loan_type"])

	if items, ok := obj["covenants"].([]any); ok {
		for _, it := range items {
			if m, ok := it.(map[string]any); ok {
				r.Covenants = append(r.Covenants, draftFromObject(m))
			}
		}
	}
	if terms, ok := obj["key_terms"].(map[string]any); ok {
		r.KeyTerms = terms
	}
	return r
}

func draftFromObject(m map[string]any) CovenantDraft {
	return CovenantDraft{
		Type:        text(m["type"]),
		Name:        text(m["name"]),
		Description: text(m["description"]),
		Threshold:   optString(m["threshold"]),
		RiskLevel:   text(m["risk_level"]),
		Status:      text(m["status"]),
		Explanation: text(m["explanation"]),
		DueDate:     optString(m["due_date"]),
	}
}

// text renders scalars as strings; anything else is "".
func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func optString(v any) *string {
	s := text(v)
	if s == "" {
		return nil
	}
	return &s
}

// optAmount accepts a number or a string such as "USD 50,000,000".
func optAmount(v any) *decimal.Decimal {
	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case float64:
		d := decimal.NewFromFloat(t)
		return &d
	case string:
		s = strings.ReplaceAll(t, ",", "")
		s = strings.TrimLeftFunc(s, func(r rune) bool { return !unicode.IsDigit(r) && r != '-' && r != '.' })
		s = strings.TrimSpace(s)
	default:
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// Truncate returns at most n characters (runes) of s.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
