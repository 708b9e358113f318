// Package reminder sweeps vaccination records for due and overdue doses and
// publishes one notification per record and due date.
package reminder

import (
	"time"

	vaccinationmodels "zoopito/internal/vaccination/models"
	id "zoopito/pkg/domain"
)

// NotificationType tags every message this package publishes.
const NotificationType = "vaccination_reminder"

// Kind says whether the dose is coming up or already late.
type Kind string

const (
	KindDue     Kind = "due"
	KindOverdue Kind = "overdue"
)

// Notification is the published reminder payload.
type Notification struct {
	Type          string           `json:"type"`
	Kind          Kind             `json:"kind"`
	VaccinationID id.VaccinationID `json:"vaccination_id"`
	AnimalID      id.AnimalID      `json:"animal_id"`
	FarmerID      id.FarmerID      `json:"farmer_id"`
	VaccineName   string           `json:"vaccine_name"`
	DoseNumber    int              `json:"dose_number"`
	NextDueDate   time.Time        `json:"next_due_date"`
	DaysUntilDue  int              `json:"days_until_due"`
	Message       string           `json:"message"`
	CreatedAt     time.Time        `json:"created_at"`
}

func newNotification(v *vaccinationmodels.Vaccination, kind Kind, now time.Time) Notification {
	n := Notification{
		Type:          NotificationType,
		Kind:          kind,
		VaccinationID: v.ID,
		AnimalID:      v.AnimalID,
		FarmerID:      v.FarmerID,
		VaccineName:   v.VaccineName,
		DoseNumber:    v.DoseNumber,
		NextDueDate:   *v.NextDueDate,
		CreatedAt:     now,
	}
	if v.DaysUntilDue != nil {
		n.DaysUntilDue = *v.DaysUntilDue
	}
	switch kind {
	case KindOverdue:
		n.Message = v.VaccineName + " dose is overdue since " + n.NextDueDate.Format(time.DateOnly)
	default:
		n.Message = v.VaccineName + " dose is due on " + n.NextDueDate.Format(time.DateOnly)
	}
	return n
}

// key identifies a reminder already sent in this process.
type key struct {
	vaccinationID id.VaccinationID
	due           string
}

func keyOf(n Notification) key {
	return key{vaccinationID: n.VaccinationID, due: n.NextDueDate.UTC().Format(time.DateOnly)}
}
