package models

import (
	"net/mail"
	"slices"
	"strings"
	"time"

	id "zoopito/pkg/domain"
	dErrors "zoopito/pkg/domain-errors"
)

type Subject string

const (
	SubjectVaccination        Subject = "Vaccination"
	SubjectFarmerRegistration Subject = "Farmer Registration"
	SubjectAnimalRegistration Subject = "Animal Registration"
	SubjectBilling            Subject = "Billing and Payments"
	SubjectPartnership        Subject = "Partnership Opportunities"
	SubjectService            Subject = "Service"
	SubjectOther              Subject = "other"
)

var subjects = []Subject{
	SubjectVaccination, SubjectFarmerRegistration, SubjectAnimalRegistration,
	SubjectBilling, SubjectPartnership, SubjectService, SubjectOther,
}

func (s Subject) Valid() bool { return slices.Contains(subjects, s) }

// GPS is where a contact message was sent from, when the client shared it.
type GPS struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	ID      id.ContactID `json:"id"`
	UserID  id.UserID    `json:"user_id,omitzero"`
	Name    string       `json:"name"`
	Email   string       `json:"email"`
	Subject Subject      `json:"subject"`
	Message string       `json:"message"`
	GPS     *GPS         `json:"gps,omitempty"`
	IsSeen  bool         `json:"is_seen"`
	MsgDate time.Time    `json:"msg_date"`
}

type ContactRequest struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Subject   Subject  `json:"subject"`
	Message   string   `json:"message"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r *ContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Message = strings.TrimSpace(r.Message)
}

func (r *ContactRequest) Validate() error {
	switch {
	case r.Name == "":
		return dErrors.New(dErrors.CodeValidation, "Name is required")
	case r.Email == "":
		return dErrors.New(dErrors.CodeValidation, "Email is required")
	case !validEmail(r.Email):
		return dErrors.New(dErrors.CodeValidation, "Email is invalid")
	case !r.Subject.Valid():
		return dErrors.New(dErrors.CodeValidation, "Subject is invalid")
	}
	return nil
}

// Build turns the request into a message sent by userID (zero for anonymous visitors).
func (r *ContactRequest) Build(userID id.UserID, now time.Time) *ContactMessage {
	m := &ContactMessage{
		ID:      id.NewContactID(),
		UserID:  userID,
		Name:    r.Name,
		Email:   r.Email,
		Subject: r.Subject,
		Message: r.Message,
		MsgDate: now,
	}
	if r.Latitude != nil && r.Longitude != nil {
		m.GPS = &GPS{Latitude: *r.Latitude, Longitude: *r.Longitude}
	}
	return m
}

// Subscriber is a newsletter subscription.
type Subscriber struct {
	ID           id.SubscriberID `json:"id"`
	Email        string          `json:"email"`
	IsActive     bool            `json:"is_active"`
	SubscribedAt time.Time       `json:"subscribed_at"`
}

type SubscribeRequest struct {
	Email string `json:"email"`
}

func (r *SubscribeRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	switch {
	case r.Email == "":
		return dErrors.New(dErrors.CodeBadRequest, "Email is required")
	case !validEmail(r.Email):
		return dErrors.New(dErrors.CodeBadRequest, "Email is invalid")
	}
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
