package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type EntryType string

const (
	EntryScan   EntryType = "scan"
	EntryRecipe EntryType = "recipe"
)

// LogEntry is one item of a daily log. The two implementations are
// ScanEntry and RecipeEntry; use MatchEntry to handle them.
type LogEntry interface {
	entryType() EntryType
}

type ScanEntry struct {
	Result AnalysisResult
}

type RecipeEntry struct {
	Recipe RecipeAnalysisResult
}

func (ScanEntry) entryType() EntryType   { return EntryScan }
func (RecipeEntry) entryType() EntryType { return EntryRecipe }

// MatchEntry dispatches on the entry kind. Both handlers are mandatory.
func MatchEntry[T any](e LogEntry, scan func(ScanEntry) T, recipe func(RecipeEntry) T) T {
	switch v := e.(type) {
	case ScanEntry:
		return scan(v)
	case *ScanEntry:
		return scan(*v)
	case RecipeEntry:
		return recipe(v)
	case *RecipeEntry:
		return recipe(*v)
	}
	panic(fmt.Sprintf("models: unknown log entry %T", e))
}

// EntryCalories is the calorie contribution of an entry to its day:
// scans count the whole product, recipes one serving.
func EntryCalories(e LogEntry) float64 {
	return MatchEntry(e,
		func(s ScanEntry) float64 { return s.Result.Nutrition.Calories },
		func(r RecipeEntry) float64 { return r.Recipe.PerServingNutrition.Calories },
	)
}

// EntryNutrition is the nutrition an entry adds to its day.
func EntryNutrition(e LogEntry) NutritionData {
	return MatchEntry(e,
		func(s ScanEntry) NutritionData { return s.Result.Nutrition },
		func(r RecipeEntry) NutritionData { return r.Recipe.PerServingNutrition },
	)
}

// EntryScore is the 1-10 score of an entry.
func EntryScore(e LogEntry) int {
	return MatchEntry(e,
		func(s ScanEntry) int { return s.Result.Analysis.Score },
		func(r RecipeEntry) int { return r.Recipe.Score },
	)
}

// LogItems is the ordered entry list of a day, encoded as
// [{"type":"scan","data":{...}}, {"type":"recipe","data":{...}}].
type LogItems []LogEntry

type taggedEntry struct {
	Type EntryType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (items LogItems) MarshalJSON() ([]byte, error) {
	out := make([]taggedEntry, 0, len(items))
	for _, it := range items {
		payload := MatchEntry(it,
			func(s ScanEntry) any { return s.Result },
			func(r RecipeEntry) any { return r.Recipe },
		)
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, taggedEntry{Type: it.entryType(), Data: data})
	}
	return json.Marshal(out)
}

func (items *LogItems) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	decoded := make(LogItems, 0, len(raw))
	for i, r := range raw {
		e, err := decodeEntry(r)
		if err != nil {
			return fmt.Errorf("log item %d: %w", i, err)
		}
		decoded = append(decoded, e)
	}
	*items = decoded
	return nil
}

func decodeEntry(r json.RawMessage) (LogEntry, error) {
	var head struct {
		Type      EntryType       `json:"type"`
		Data      json.RawMessage `json:"data"`
		Nutrition json.RawMessage `json:"nutrition"`
	}
	if err := json.Unmarshal(r, &head); err != nil {
		return nil, err
	}

	switch {
	case head.Type == EntryRecipe:
		var rec RecipeAnalysisResult
		if err := json.Unmarshal(head.Data, &rec); err != nil {
			return nil, err
		}
		return RecipeEntry{Recipe: rec}, nil
	case head.Type == EntryScan:
		var res AnalysisResult
		if err := json.Unmarshal(head.Data, &res); err != nil {
			return nil, err
		}
		return ScanEntry{Result: res}, nil
	case head.Type == "" && len(bytes.TrimSpace(head.Nutrition)) > 0:
		// untagged scan results written by earlier clients
		var res AnalysisResult
		if err := json.Unmarshal(r, &res); err != nil {
			return nil, err
		}
		return ScanEntry{Result: res}, nil
	}
	return nil, fmt.Errorf("unknown log entry type %q", head.Type)
}

type DailyLog struct {
	Date          string   `json:"date"` // YYYY-MM-DD
	TotalCalories float64  `json:"totalCalories"`
	Items         LogItems `json:"items"`
}

// Append adds an entry and keeps TotalCalories equal to the sum of the
// items' contributions.
func (l *DailyLog) Append(e LogEntry) {
	l.Items = append(l.Items, e)
	l.Recount()
}

func (l *DailyLog) Recount() {
	var total float64
	for _, it := range l.Items {
		total += EntryCalories(it)
	}
	l.TotalCalories = total
}

type DailyLogRecord struct {
	Date          string   `gorm:"primaryKey;size:10"`
	TotalCalories float64  `gorm:"not null;default:0"`
	Items         LogItems `gorm:"serializer:json;not null"`
	UpdatedAt     time.Time
}

func (DailyLogRecord) TableName() string { return "daily_logs" }

func (r DailyLogRecord) ToLog() DailyLog {
	return DailyLog{Date: r.Date, TotalCalories: r.TotalCalories, Items: r.Items}
}
