package models

import (
	"sort"
	"strings"
	"time"
)

// Patient owns its prescription history; insertion order is chronological.
type Patient struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Age           int            `json:"age"`
	Gender        string         `json:"gender"`
	Prescriptions []Prescription `json:"prescriptions"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Clone deep-copies the history so callers never share backing arrays.
func (p Patient) Clone() Patient {
	out := p
	if p.Prescriptions == nil {
		return out
	}
	out.Prescriptions = make([]Prescription, len(p.Prescriptions))
	for i, rx := range p.Prescriptions {
		out.Prescriptions[i] = rx.Clone()
	}
	return out
}

// FindPrescription looks up a historical prescription by id.
func (p Patient) FindPrescription(id string) (Prescription, bool) {
	for _, rx := range p.Prescriptions {
		if rx.ID == id {
			return rx, true
		}
	}
	return Prescription{}, false
}

// Patients is the patient collection keyed by patient id.
type Patients map[string]Patient

// Clone returns a deep copy of the collection.
func (p Patients) Clone() Patients {
	out := make(Patients, len(p))
	for id, patient := range p {
		out[id] = patient.Clone()
	}
	return out
}

// Sorted returns the records ordered by name, then id.
func (p Patients) Sorted() []Patient {
	out := make([]Patient, 0, len(p))
	for _, patient := range p {
		out = append(out, patient)
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if ni != nj {
			return ni < nj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// PrescriptionCount totals the history length across every patient.
func (p Patients) PrescriptionCount() int {
	total := 0
	for _, patient := range p {
		total += len(patient.Prescriptions)
	}
	return total
}
