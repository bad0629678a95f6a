package model

// Doctor is the subset of a doctor record the reports need.
// Specialty is stored as "specialization" in the doctors table.
type Doctor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Email     string `json:"email"`
}

// Patient is one row of a doctor's patient roster.
type Patient struct {
	ID            string `json:"id"`
	DoctorID      string `json:"doctor_id"`
	Name          string `json:"name"`
	Gender        string `json:"gender"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
}
