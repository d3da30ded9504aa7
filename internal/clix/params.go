package clix

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"tracker/internal/models"
)

type PaginationParams struct {
	Limit  int
	Offset int
}

func ParsePagination(flags *pflag.FlagSet) (PaginationParams, error) {
	limit, _ := flags.GetInt("limit")
	offset, _ := flags.GetInt("offset")
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return PaginationParams{Limit: limit, Offset: offset}, nil
}

// ParseStatuses reads the comma-separated --status flag and validates each
// entry against the known lifecycle states.
func ParseStatuses(flags *pflag.FlagSet) ([]models.Status, error) {
	statusStr, _ := flags.GetString("status")
	var statuses []models.Status
	if statusStr != "" {
		for _, s := range strings.Split(statusStr, ",") {
			trimmed := strings.TrimSpace(s)
			if trimmed == "" {
				continue
			}
			status := models.Status(trimmed)
			if !models.ValidStatus(status) {
				return nil, fmt.Errorf("invalid status: %s", trimmed)
			}
			statuses = append(statuses, status)
		}
	}
	return statuses, nil
}
