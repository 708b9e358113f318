// Package domain holds identifier and role primitives shared by every module.
package domain

import (
	"fmt"

	"github.com/google/uuid"

	dErrors "zoopito/pkg/domain-errors"
)

// Typed identifiers keep a farmer ID from being passed where an animal ID is expected.
type (
	UserID        uuid.UUID
	FarmerID      uuid.UUID
	ParavetID     uuid.UUID
	SalesMemberID uuid.UUID
	VaccineID     uuid.UUID
	AnimalID      uuid.UUID
	VaccinationID uuid.UUID
	ContactID     uuid.UUID
	SubscriberID  uuid.UUID
)

// parseID validates a UUID at a trust boundary: non-empty, well-formed, non-nil.
func parseID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id is required")
	}
	if len(s) != 36 {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" id")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+kind+" id")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id cannot be nil")
	}
	return u, nil
}

func unmarshalID(kind string, text []byte) (uuid.UUID, error) {
	if len(text) == 0 {
		return uuid.Nil, nil
	}
	u, err := uuid.ParseBytes(text)
	if err != nil {
		return uuid.Nil, fmt.Errorf("decode %s id: %w", kind, err)
	}
	return u, nil
}

// ParseUserID parses a user identifier.
func ParseUserID(s string) (UserID, error) {
	u, err := parseID("user", s)
	return UserID(u), err
}

// NewUserID returns a fresh random user identifier.
func NewUserID() UserID {
	return UserID(uuid.New())
}

func (i UserID) String() string {
	return uuid.UUID(i).String()
}

func (i UserID) IsNil() bool {
	return uuid.UUID(i) == uuid.Nil
}

func (i UserID) MarshalText() ([]byte, error) {
	if i.IsNil() {
		return []byte{}, nil
	}
	return []byte(i.String()), nil
}

func (i *UserID) UnmarshalText(text []byte) error {
	u, err := unmarshalID("user", text)
	if err != nil {
		return err
	}
	*i = UserID(u)
	return nil
}

// ParseFarmerID parses a farmer identifier.
func ParseFarmerID(s string) (FarmerID, error) {
	u, err := parseID("farmer", s)
	return FarmerID(u), err
}

// NewFarmerID returns a fresh random farmer identifier.
func NewFarmerID() FarmerID {
	return FarmerID(uuid.New())
}

func (i FarmerID) String() string {
	return uuid.UUID(i).String()
}

func (i FarmerID) IsNil() bool {
	return uuid.UUID(i) == uuid.Nil
}

func (i FarmerID) MarshalText() ([]byte, error) {
	if i.IsNil() {
		return []byte{}, nil
	}
	return []byte(i.String()), nil
}

func (i *FarmerID) UnmarshalText(text []byte) error {
	u, err := unmarshalID("farmer", text)
	if err != nil {
		return err
	}
	*i = FarmerID(u)
	return nil
}

// ParseParavetID parses a paravet identifier.
func ParseParavetID(s string) (ParavetID, error) {
	u, err := parseID("paravet", s)
	return ParavetID(u), err
}

// NewParavetID returns a fresh random paravet identifier.
func NewParavetID() ParavetID {
	return ParavetID(uuid.New())
}

func (i ParavetID) String() string {
	return uuid.UUID(i).String()
}

func (i ParavetID) IsNil() bool {
	return uuid.UUID(i) == uuid.Nil
}

func (i ParavetID) MarshalText() ([]byte, error) {
	if i.IsNil() {
		return []byte{}, nil
	}
	return []byte(i.String()), nil
}

func (i *ParavetID) UnmarshalText(text []byte) error {
	u, err := unmarshalID("paravet", text)
	if err != nil {
		return err
	}
	*i = ParavetID(u)
	return nil
}

// ParseSalesMemberID parses a sales member identifier.
func ParseSalesMemberID(s string) (SalesMemberID, error) {
	u, err := parseID("sales member", s)
	return SalesMemberID(u), err
}

// NewSalesMemberID returns a fresh random sales member identifier.
func NewSalesMemberID() SalesMemberID {
	return SalesMemberID(uuid.New())
}

func (i SalesMemberID) String() string {
	return uuid.UUID(i).String()
}

func (i SalesMemberID) IsNil() bool {
	return uuid.UUID(i) == uuid.Nil
}

func (i SalesMemberID) MarshalText() ([]byte, error) {
	if i.IsNil() {
		return []byte{}, nil
	}
	return []byte(i.String()), nil
}

func (i *SalesMemberID) UnmarshalText(text []byte) error {
	u, err := unmarshalID("sales member", text)
	if err != nil {
		return err
	}
	*i = SalesMemberID(u)
	return nil
}

// ParseVaccineID parses a vaccine identifier.
func ParseVaccineID(s string) (VaccineID, error) {
	u, err := parseID("vaccine", s)
	return VaccineID(u), err
}

// NewVaccineID returns a fresh random vaccine identifier.
func NewVaccineID() VaccineID {
	return VaccineID(uuid.New())
}

func (i VaccineID) String() string {
	return uuid.UUID(i).String()
}

func (i VaccineID) IsNil() bool {
	return uuid.UUID(i) == uuid.Nil
}

func (i VaccineID) MarshalText() ([]byte, error) {
	if i.IsNil() {
		return []byte{}, nil
	}
	return []byte(i.String()), nil
}

func (i *VaccineID) UnmarshalText(text []byte) error {
	u, err := unmarshalID("vaccine", text)
	if err != nil {
		return err
	}
	*i = VaccineID(u)
	return nil
}

// ParseAnimalID parses a animal identifier.
func ParseAnimalID(s string) (AnimalID, error) {
	u, err := parseID("animal", s)
	return AnimalID(u), err
}

// NewAnimalID returns a fresh random animal identifier.
func NewAnimalID() AnimalID {
	return AnimalID(uuid.New())
}

func (i AnimalID) String() string {
	return uuid.UUID(i).String()
}

func (i AnimalID) IsNil() bool {
	return uuid.UUID(i) == uuid.Nil
}

func (i AnimalID) MarshalText() ([]byte, error) {
	if i.IsNil() {
		return []byte{}, nil
	}
	return []byte(i.String()), nil
}

func (i *AnimalID) UnmarshalText(text []byte) error {
	u, err := unmarshalID("animal", text)
	if err != nil {
		return err
	}
	*i = AnimalID(u)
	return nil
}

// ParseVaccinationID parses a vaccination identifier.
func ParseVaccinationID(s string) (VaccinationID, error) {
	u, err := parseID("vaccination", s)
	return VaccinationID(u), err
}

// NewVaccinationID returns a fresh random vaccination identifier.
func NewVaccinationID() VaccinationID {
	return VaccinationID(uuid.New())
}

func (i VaccinationID) String() string {
	return uuid.UUID(i).String()
}

func (i VaccinationID) IsNil() bool {
	return uuid.UUID(i) == uuid.Nil
}

func (i VaccinationID) MarshalText() ([]byte, error) {
	if i.IsNil() {
		return []byte{}, nil
	}
	return []byte(i.String()), nil
}

func (i *VaccinationID) UnmarshalText(text []byte) error {
	u, err := unmarshalID("vaccination", text)
	if err != nil {
		return err
	}
	*i = VaccinationID(u)
	return nil
}

// ParseContactID parses a contact identifier.
func ParseContactID(s string) (ContactID, error) {
	u, err := parseID("contact", s)
	return ContactID(u), err
}

// NewContactID returns a fresh random contact identifier.
func NewContactID() ContactID {
	return ContactID(uuid.New())
}

func (i ContactID) String() string {
	return uuid.UUID(i).String()
}

func (i ContactID) IsNil() bool {
	return uuid.UUID(i) == uuid.Nil
}

func (i ContactID) MarshalText() ([]byte, error) {
	if i.IsNil() {
		return []byte{}, nil
	}
	return []byte(i.String()), nil
}

func (i *ContactID) UnmarshalText(text []byte) error {
	u, err := unmarshalID("contact", text)
	if err != nil {
		return err
	}
	*i = ContactID(u)
	return nil
}

// ParseSubscriberID parses a subscriber identifier.
func ParseSubscriberID(s string) (SubscriberID, error) {
	u, err := parseID("subscriber", s)
	return SubscriberID(u), err
}

// NewSubscriberID returns a fresh random subscriber identifier.
func NewSubscriberID() SubscriberID {
	return SubscriberID(uuid.New())
}

func (i SubscriberID) String() string {
	return uuid.UUID(i).String()
}

func (i SubscriberID) IsNil() bool {
	return uuid.UUID(i) == uuid.Nil
}

func (i SubscriberID) MarshalText() ([]byte, error) {
	if i.IsNil() {
		return []byte{}, nil
	}
	return []byte(i.String()), nil
}

func (i *SubscriberID) UnmarshalText(text []byte) error {
	u, err := unmarshalID("subscriber", text)
	if err != nil {
		return err
	}
	*i = SubscriberID(u)
	return nil
}
