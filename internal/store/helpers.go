package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/artefluxo/promptstudio/internal/models"
)

// scanCustomActionRow scans a custom action from a single sql.Row. The
// fields column holds the questions as JSON.
func scanCustomActionRow(row *sql.Row) (*models.CustomAction, error) {
	var action models.CustomAction
	var workType, fieldsJSON string
	err := row.Scan(&action.ID, &action.Title, &workType, &fieldsJSON, &action.CreatedAt, &action.UpdatedAt)
	if err != nil {
		return nil, err
	}
	action.WorkType = models.WorkType(workType)
	if err := json.Unmarshal([]byte(fieldsJSON), &action.Fields); err != nil {
		return nil, fmt.Errorf("unmarshal custom action fields: %w", err)
	}
	return &action, nil
}

// collectCustomActions drains rows into a slice of custom actions.
func collectCustomActions(rows *sql.Rows) ([]models.CustomAction, error) {
	var actions []models.CustomAction
	for rows.Next() {
		var action models.CustomAction
		var workType, fieldsJSON string
		if err := rows.Scan(&action.ID, &action.Title, &workType, &fieldsJSON, &action.CreatedAt, &action.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan custom action row: %w", err)
		}
		action.WorkType = models.WorkType(workType)
		if err := json.Unmarshal([]byte(fieldsJSON), &action.Fields); err != nil {
			return nil, fmt.Errorf("unmarshal custom action fields: %w", err)
		}
		actions = append(actions, action)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate custom action rows: %w", err)
	}
	return actions, nil
}
