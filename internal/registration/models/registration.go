package models

import (
	"fmt"
	"strconv"
	"time"

	animalmodels "zoopito/internal/animal/models"
	vaccinationmodels "zoopito/internal/vaccination/models"
	"zoopito/pkg/codegen"
	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
)

// MaxEntries bounds the number of animals in one batch.
const MaxEntries = 500

const batchSuffixLength = 9

// Entry is one animal of a batch together with the doses it already received.
type Entry struct {
	animalmodels.CreateAnimalRequest
	Vaccinations []vaccinationmodels.RecordRequest `json:"vaccinations"`
}

// Request is a bulk registration. FarmerID applies to entries that name no farmer.
type Request struct {
	FarmerID id.FarmerID `json:"farmer_id"`
	Atomic   bool        `json:"atomic"`
	Animals  []Entry     `json:"animals"`
}

func (r *Request) Validate() error {
	switch {
	case len(r.Animals) == 0:
		return dErrors.New(dErrors.CodeValidation, "At least one animal is required")
	case len(r.Animals) > MaxEntries:
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("A batch holds at most %d animals", MaxEntries))
	}
	return nil
}

// EntryError reports why the entry at Index was not registered.
type EntryError struct {
	Index   int    `json:"index"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Created is a registered entry.
type Created struct {
	Index        int                              `json:"index"`
	Animal       *animalmodels.Animal             `json:"animal"`
	Vaccinations []*vaccinationmodels.Vaccination `json:"vaccinations"`
}

// Result is the outcome of a batch. CreatedCount + FailedCount equals the number of entries.
type Result struct {
	BatchID      string       `json:"batch_id"`
	Atomic       bool         `json:"atomic"`
	Created      []Created    `json:"created"`
	Errors       []EntryError `json:"errors"`
	CreatedCount int          `json:"created_count"`
	FailedCount  int          `json:"failed_count"`
}

// Tally fills the counters from the collected entries.
func (r *Result) Tally() {
	r.CreatedCount = len(r.Created)
	r.FailedCount = len(r.Errors)
}

// NewBatchID returns BATCH_<unix millis>_<9 lowercase alphanumerics>.
func NewBatchID(now time.Time) (string, error) {
	suffix, err := codegen.Random(batchSuffixLength, codegen.LowerAlphaNumeric)
	if err != nil {
		return "", err
	}
	return "BATCH_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + suffix, nil
}

// VaccinationField names field of the j-th vaccination of an entry.
func VaccinationField(j int, field string) string {
	out := "vaccinations[" + strconv.Itoa(j) + "]"
	if field != "" {
		out += "." + field
	}
	return out
}
