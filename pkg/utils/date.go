package utils

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts são os formatos aceitos para a coluna de data dos datasets
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	// timestamptz convertido para texto pelo PostgreSQL
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05Z07:00",
	time.DateOnly,
	"2006-01",
	"2006/01/02",
	"2006/01",
	"01/02/2006",
	"1/2/2006",
	"January 2006",
	"Jan 2006",
}

// ParseFlexibleDate tenta os formatos conhecidos até um deles funcionar
func ParseFlexibleDate(dateStr string) (time.Time, error) {
	value := strings.TrimSpace(dateStr)
	if value == "" {
		return time.Time{}, fmt.Errorf("data vazia")
	}

	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, value); err == nil {
			return date, nil
		}
	}

	return time.Time{}, fmt.Errorf("formato de data não reconhecido: %q", dateStr)
}
