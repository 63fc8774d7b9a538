package dto

type VaccineRequest struct {
	Name         string  `json:"name"         validate:"required,max=255"`
	Description  *string `json:"description"`
	Manufacturer *string `json:"manufacturer" validate:"omitempty,max=255"`
}

type VaccineResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	Manufacturer *string `json:"manufacturer"`
}

// VaccineRecordRequest: DateAdministered defaults to today.
type VaccineRecordRequest struct {
	AnimalID         string  `json:"animal_id"         validate:"required,uuid"`
	VaccineID        string  `json:"vaccine_id"        validate:"required,uuid"`
	DateAdministered string  `json:"date_administered" validate:"omitempty,datetime=2006-01-02"`
	AdministeredBy   *string `json:"administered_by"   validate:"omitempty,max=255"`
	Remarks          *string `json:"remarks"`
}

type VaccineRecordFilter struct {
	AnimalID string `form:"animal_id"`
}

type VaccineRecordResponse struct {
	ID               string  `json:"id"`
	AnimalID         string  `json:"animal_id"`
	VaccineID        string  `json:"vaccine_id"`
	VaccineName      string  `json:"vaccine_name,omitempty"`
	DateAdministered string  `json:"date_administered"`
	AdministeredBy   *string `json:"administered_by"`
	Remarks          *string `json:"remarks"`
}
