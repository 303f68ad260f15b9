package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type Feedback struct {
	ID           int64     `bson:"_id" json:"id"`
	Timestamp    time.Time `bson:"timestamp" json:"timestamp"`
	SkinType     string    `bson:"skin_type" json:"skin_type"`
	Confidence   float64   `bson:"confidence" json:"confidence"`
	UserFeedback string    `bson:"user_feedback" json:"user_feedback"`
	Helpful      string    `bson:"helpful" json:"helpful"`
}

var ErrInvalidConfidence = errors.New("invalid confidence value")

// ConfidenceError is returned when a submitted confidence cannot be coerced to a float.
type ConfidenceError struct {
	Raw string
}

func (e *ConfidenceError) Error() string {
	return fmt.Sprintf("could not convert confidence to float: %s", e.Raw)
}

func (e *ConfidenceError) Unwrap() error {
	return ErrInvalidConfidence
}

// Confidence accepts a JSON number, a numeric string, a boolean, or null.
// Missing, null, "" and false all coerce to 0.
type Confidence float64

func (c *Confidence) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*c = 0
		return nil
	case bytes.Equal(data, []byte("true")):
		*c = 1
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return &ConfidenceError{Raw: string(data)}
		}
		return c.parse(s)
	case data[0] == '{' || data[0] == '[':
		return &ConfidenceError{Raw: string(data)}
	default:
		return c.parse(string(data))
	}
}

func (c *Confidence) parse(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		*c = 0
		return nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return &ConfidenceError{Raw: strconv.Quote(s)}
	}
	*c = Confidence(v)
	return nil
}
