package service

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"cryptem/internal/domain"
)

// ErrInvalidSignalPayload is returned when the upstream body is not a JSON array
// (bare or wrapped as {"signals": [...]})
var ErrInvalidSignalPayload = errors.New("signal payload is not a JSON array")

// entryTimeLayouts are tried in order when sorting by entry_time
var entryTimeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NormalizeSignals decodes the raw upstream list, fills derived fields and sorts newest first
func NormalizeSignals(raw []byte) ([]domain.Signal, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrInvalidSignalPayload)
	}

	root := gjson.ParseBytes(raw)
	if root.IsObject() {
		root = root.Get("signals")
	}
	if !root.IsArray() {
		return nil, ErrInvalidSignalPayload
	}

	signals := make([]domain.Signal, 0, len(root.Array()))
	root.ForEach(func(_, item gjson.Result) bool {
		signals = append(signals, normalizeSignal(item))
		return true
	})

	SortByEntryTime(signals)
	return signals, nil
}

func normalizeSignal(item gjson.Result) domain.Signal {
	sig := domain.Signal{
		Symbol:       textField(item.Get("symbol")),
		Type:         normalizeSide(textField(item.Get("type"))),
		EntryPrice:   numberField(item.Get("entry_price")),
		TargetPrice:  numberField(item.Get("target_price")),
		EntryTime:    textField(item.Get("entry_time")),
		Status:       textField(item.Get("status")),
		QualityScore: numberField(item.Get("quality_score")),
		SignalClass:  textField(item.Get("signal_class")),
	}
	sig.DisplayType = DisplayType(sig.Type)
	sig.ProjectionPercentage = Projection(sig.EntryPrice, sig.TargetPrice)
	return sig
}

// normalizeSide accepts LONG/COMPRA as buys; anything else is a sell
func normalizeSide(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case domain.SideLong, domain.DisplayBuy:
		return domain.SideLong
	default:
		return domain.SideShort
	}
}

func textField(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	default:
		return ""
	}
}

// numberField accepts numbers and numeric strings; anything else is 0
func numberField(r gjson.Result) float64 {
	var v float64
	switch r.Type {
	case gjson.Number:
		v = r.Num
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0
		}
		v = parsed
	default:
		return 0
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// DisplayType maps a side to its card label
func DisplayType(side string) string {
	if side == domain.SideShort {
		return domain.DisplaySell
	}
	return domain.DisplayBuy
}

// Projection returns the signed percent move from entry to target, rounded to 2 decimals
func Projection(entry, target float64) float64 {
	if entry == 0 {
		return 0
	}
	return math.Round((target-entry)/entry*100*100) / 100
}

// SortByEntryTime orders signals newest first; unparseable times go last
func SortByEntryTime(signals []domain.Signal) {
	times := make(map[string]time.Time, len(signals))
	for _, s := range signals {
		if _, seen := times[s.EntryTime]; !seen {
			times[s.EntryTime] = parseEntryTime(s.EntryTime)
		}
	}

	sort.SliceStable(signals, func(i, j int) bool {
		ti, tj := times[signals[i].EntryTime], times[signals[j].EntryTime]
		if ti.IsZero() || tj.IsZero() {
			return !ti.IsZero() && tj.IsZero()
		}
		return ti.After(tj)
	})
}

func parseEntryTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range entryTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Summary counts buy (LONG) and sell (SHORT) signals
func Summary(signals []domain.Signal) (buy, sell int) {
	for i := range signals {
		if signals[i].IsLong() {
			buy++
		} else {
			sell++
		}
	}
	return buy, sell
}

// ParseClassFilter splits "premium,elite" into upper-case class names
func ParseClassFilter(raw string) []string {
	var classes []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			classes = append(classes, part)
		}
	}
	return classes
}

// FilterByClass keeps signals whose class is one of classes. An empty filter keeps all.
func FilterByClass(signals []domain.Signal, classes []string) []domain.Signal {
	if len(classes) == 0 {
		return signals
	}

	out := make([]domain.Signal, 0, len(signals))
	for _, s := range signals {
		for _, class := range classes {
			if strings.EqualFold(s.SignalClass, class) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
