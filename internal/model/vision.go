package model

import "time"

type Vision struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	Content       string    `db:"content" json:"content"`
	MetricStart   float64   `db:"metric_start" json:"metric_start"`
	MetricCurrent float64   `db:"metric_current" json:"metric_current"`
	MetricTarget  float64   `db:"metric_target" json:"metric_target"`
	MetricUnit    string    `db:"metric_unit" json:"metric_unit"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type VisionInput struct {
	Content       string  `json:"content"`
	MetricStart   float64 `json:"metric_start"`
	MetricCurrent float64 `json:"metric_current"`
	MetricTarget  float64 `json:"metric_target"`
	MetricUnit    string  `json:"metric_unit"`
}
