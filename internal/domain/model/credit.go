package model

import "time"

// CreditEvent records one continuity credit granted to a contributing clinic
// when another clinic continued care with its shared history.
type CreditEvent struct {
	ID         string    `json:"id"`
	PatientKey string    `json:"patientId"` // match key of the subject
	FromClinic string    `json:"fromClinic"`
	ToClinic   string    `json:"toClinic"`
	Timestamp  time.Time `json:"timestamp"`
}

// IdempotencyKey identifies the (subject, source, destination) triple.
func (e CreditEvent) IdempotencyKey() string {
	return CreditKey(e.PatientKey, e.FromClinic, e.ToClinic)
}

// CreditKey builds the idempotency key for a credit triple.
func CreditKey(patientKey, fromClinic, toClinic string) string {
	return patientKey + ":" + fromClinic + ":" + toClinic
}
