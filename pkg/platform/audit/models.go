package audit

import (
	"context"
	"time"

	id "zoopito/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategoryRegistry covers records entering or leaving the registries
	// (farmers, animals, vaccinations, accounts).
	CategoryRegistry EventCategory = "registry"

	// CategorySecurity covers account blocking and role changes.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine updates that are useful for debugging.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted by services after a mutation succeeds. It is transport-agnostic;
// the publisher fills RequestID, ClientIP and Device from the request context.
type Event struct {
	ID        int64         `json:"id,omitempty"`
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	ActorID   id.UserID     `json:"actor_id"`
	ActorRole id.Role       `json:"actor_role,omitempty"`
	Action    string        `json:"action"`
	Subject   string        `json:"subject"`
	SubjectID string        `json:"subject_id,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	ClientIP  string        `json:"client_ip,omitempty"`
	Device    string        `json:"device,omitempty"`
	Detail    string        `json:"detail,omitempty"`
}

// Filter narrows audit listings. Zero fields match everything.
type Filter struct {
	ActorID id.UserID
	Action  string
	Subject string
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context, filter Filter, offset, limit int) ([]Event, int, error)
}

type AuditEvent string

const (
	EventUserCreated   AuditEvent = "user_created"
	EventUserDeleted   AuditEvent = "user_deleted"
	EventUserBlocked   AuditEvent = "user_blocked"
	EventUserUnblocked AuditEvent = "user_unblocked"
	EventRoleChanged   AuditEvent = "user_role_changed"

	EventFarmerCreated     AuditEvent = "farmer_created"
	EventFarmerUpdated     AuditEvent = "farmer_updated"
	EventFarmerToggled     AuditEvent = "farmer_status_toggled"
	EventFarmerDeleted     AuditEvent = "farmer_deleted"
	EventParavetCreated    AuditEvent = "paravet_created"
	EventParavetUpdated    AuditEvent = "paravet_updated"
	EventParavetToggled    AuditEvent = "paravet_status_toggled"
	EventParavetDeleted    AuditEvent = "paravet_deleted"
	EventSalesMemberAdded  AuditEvent = "sales_member_created"
	EventVaccineCreated    AuditEvent = "vaccine_created"
	EventVaccineUpdated    AuditEvent = "vaccine_updated"
	EventVaccineToggled    AuditEvent = "vaccine_status_toggled"
	EventVaccineDeleted    AuditEvent = "vaccine_deleted"
	EventAnimalCreated     AuditEvent = "animal_created"
	EventAnimalUpdated     AuditEvent = "animal_updated"
	EventAnimalDeleted     AuditEvent = "animal_deleted"
	EventAnimalTransferred AuditEvent = "animal_transferred"
	EventAnimalDeceased    AuditEvent = "animal_marked_deceased"
	EventBulkRegistered    AuditEvent = "bulk_registration"

	EventVaccinationRecorded    AuditEvent = "vaccination_recorded"
	EventVaccinationUpdated     AuditEvent = "vaccination_updated"
	EventVaccinationDeleted     AuditEvent = "vaccination_deleted"
	EventVaccinationVerified    AuditEvent = "vaccination_verified"
	EventVaccinationMissed      AuditEvent = "vaccination_missed"
	EventVaccinationRescheduled AuditEvent = "vaccination_rescheduled"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventUserCreated:         CategoryRegistry,
	EventUserDeleted:         CategoryRegistry,
	EventFarmerCreated:       CategoryRegistry,
	EventFarmerDeleted:       CategoryRegistry,
	EventParavetCreated:      CategoryRegistry,
	EventParavetDeleted:      CategoryRegistry,
	EventSalesMemberAdded:    CategoryRegistry,
	EventVaccineCreated:      CategoryRegistry,
	EventVaccineDeleted:      CategoryRegistry,
	EventAnimalCreated:       CategoryRegistry,
	EventAnimalDeleted:       CategoryRegistry,
	EventAnimalTransferred:   CategoryRegistry,
	EventAnimalDeceased:      CategoryRegistry,
	EventBulkRegistered:      CategoryRegistry,
	EventVaccinationRecorded: CategoryRegistry,
	EventVaccinationDeleted:  CategoryRegistry,

	EventUserBlocked:   CategorySecurity,
	EventUserUnblocked: CategorySecurity,
	EventRoleChanged:   CategorySecurity,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
