package model

import (
	"errors"
	"fmt"
)

// ErrInvalidCategory is returned when a category is not one of the enumerated values.
var ErrInvalidCategory = errors.New("invalid file category")

// Category classifies an uploaded file. Every file carries exactly one.
type Category string

const (
	CategoryMedicalRecord           Category = "medical_record"
	CategoryPrescription            Category = "prescription"
	CategoryLabResult               Category = "lab_result"
	CategoryDoctorCertification     Category = "doctor_certification"
	CategoryRegistrationCertificate Category = "registration_certificate"
	CategoryGovernmentID            Category = "government_id"
	CategoryProfilePhoto            Category = "profile_photo"
	CategoryOther                   Category = "other"
)

// Categories lists every valid category in declaration order.
var Categories = []Category{
	CategoryMedicalRecord,
	CategoryPrescription,
	CategoryLabResult,
	CategoryDoctorCertification,
	CategoryRegistrationCertificate,
	CategoryGovernmentID,
	CategoryProfilePhoto,
	CategoryOther,
}

// ParseCategory validates s against the enumerated categories.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}
