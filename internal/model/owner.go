package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidOwnerKind is returned when an owner kind is empty or not one of the known kinds.
var ErrInvalidOwnerKind = errors.New("invalid owner kind")

// OwnerKind tags which collection an owner id resolves against.
type OwnerKind string

const (
	OwnerPatient OwnerKind = "Patient"
	OwnerDoctor  OwnerKind = "Doctor"
)

// OwnerRef identifies the principal that owns a file: either a patient or a doctor.
// The zero value is invalid; build one with PatientOwner, DoctorOwner or ParseOwnerRef.
type OwnerRef struct {
	kind OwnerKind
	id   string
}

// PatientOwner returns an owner reference to the patient with the given id.
func PatientOwner(id string) OwnerRef { return OwnerRef{kind: OwnerPatient, id: id} }

// DoctorOwner returns an owner reference to the doctor with the given id.
func DoctorOwner(id string) OwnerRef { return OwnerRef{kind: OwnerDoctor, id: id} }

// ParseOwnerRef builds an owner reference from its persisted kind tag and id.
// Kind matching is case-sensitive, mirroring the stored tag values.
func ParseOwnerRef(kind, id string) (OwnerRef, error) {
	switch OwnerKind(kind) {
	case OwnerPatient:
		return PatientOwner(id), nil
	case OwnerDoctor:
		return DoctorOwner(id), nil
	default:
		return OwnerRef{}, fmt.Errorf("%w: %q", ErrInvalidOwnerKind, kind)
	}
}

func (o OwnerRef) Kind() OwnerKind { return o.kind }
func (o OwnerRef) ID() string      { return o.id }

// IsZero reports whether the reference was never set.
func (o OwnerRef) IsZero() bool { return o.kind == "" }

// Collection returns the table the owner id resolves against.
func (o OwnerRef) Collection() (string, error) {
	switch o.kind {
	case OwnerPatient:
		return "patients", nil
	case OwnerDoctor:
		return "doctors", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOwnerKind, o.kind)
	}
}

func (o OwnerRef) String() string {
	return string(o.kind) + "/" + o.id
}

type ownerJSON struct {
	Kind OwnerKind `json:"kind"`
	ID   string    `json:"id"`
}

func (o OwnerRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(ownerJSON{Kind: o.kind, ID: o.id})
}

func (o *OwnerRef) UnmarshalJSON(b []byte) error {
	var v ownerJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	ref, err := ParseOwnerRef(string(v.Kind), v.ID)
	if err != nil {
		return err
	}
	*o = ref
	return nil
}
