package entities

import "errors"

// CustomerRecord is the structured result extracted from a finished call
// transcript. It is produced once per call and delivered at most once to
// the configured webhook.
type CustomerRecord struct {
	CustomerName         string `json:"customerName"`
	CustomerAvailability string `json:"customerAvailability"`
	SpecialNotes         string `json:"specialNotes"`
}

// Validate checks that all three required fields are present.
func (r *CustomerRecord) Validate() error {
	if r.CustomerName == "" {
		return errors.New("customerName is required")
	}
	if r.CustomerAvailability == "" {
		return errors.New("customerAvailability is required")
	}
	if r.SpecialNotes == "" {
		return errors.New("specialNotes is required")
	}
	return nil
}
