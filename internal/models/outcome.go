package models

import (
	"encoding/json"
	"errors"
)

// Outcome holds either a computed value or the message explaining why the
// value could not be computed. It serializes as the value itself, or as
// {"error": "..."} when degraded.
type Outcome[T any] struct {
	value *T
	err   string
}

func Succeeded[T any](v *T) *Outcome[T] {
	return &Outcome[T]{value: v}
}

func Degraded[T any](err error) *Outcome[T] {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &Outcome[T]{err: msg}
}

func (o *Outcome[T]) IsDegraded() bool {
	return o.err != "" || o.value == nil
}

// Result returns the value, or an error for a degraded outcome.
func (o *Outcome[T]) Result() (*T, error) {
	if o.IsDegraded() {
		return nil, errors.New(o.ErrorMessage())
	}
	return o.value, nil
}

func (o *Outcome[T]) ErrorMessage() string {
	if o.err == "" && o.value == nil {
		return "no result"
	}
	return o.err
}

func (o *Outcome[T]) MarshalJSON() ([]byte, error) {
	if o.IsDegraded() {
		return json.Marshal(map[string]string{"error": o.ErrorMessage()})
	}
	return json.Marshal(o.value)
}

func (o *Outcome[T]) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	if envelope.Error != nil {
		o.value, o.err = nil, *envelope.Error
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.value, o.err = &v, ""
	return nil
}
