package models

import (
	"time"
)

// Trainee is the root record for one program participant. Sub-records (tests,
// interactions, strikes) are owned by the trainee and keyed by its id.
type Trainee struct {
	ID          string `json:"id" db:"id"`
	DisplayName string `json:"display_name" db:"display_name" validate:"required"`
	Cohort      string `json:"cohort,omitempty" db:"cohort"`

	PersonalInfo   PersonalInfo   `json:"personal_info" db:"personal_info"`
	ContactInfo    ContactInfo    `json:"contact_info" db:"contact_info"`
	EducationInfo  EducationInfo  `json:"education_info" db:"education_info"`
	EmploymentInfo EmploymentInfo `json:"employment_info" db:"employment_info"`

	Tests        []TestRecord  `json:"tests,omitempty" db:"-"`
	Interactions []Interaction `json:"interactions,omitempty" db:"-"`
	Strikes      []Strike      `json:"strikes,omitempty" db:"-"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

type PersonalInfo struct {
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

type ContactInfo struct {
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

type EducationInfo struct {
	HighestDegree string `json:"highest_degree,omitempty"`
	FieldOfStudy  string `json:"field_of_study,omitempty"`
	EnglishLevel  string `json:"english_level,omitempty"`
}

type EmploymentInfo struct {
	Status   string `json:"status,omitempty"`
	Employer string `json:"employer,omitempty"`
	JobTitle string `json:"job_title,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// CreateTraineeRequest is the request body for registering a trainee
type CreateTraineeRequest struct {
	DisplayName    string         `json:"display_name" validate:"required"`
	Cohort         string         `json:"cohort,omitempty"`
	PersonalInfo   PersonalInfo   `json:"personal_info,omitempty"`
	ContactInfo    ContactInfo    `json:"contact_info,omitempty"`
	EducationInfo  EducationInfo  `json:"education_info,omitempty"`
	EmploymentInfo EmploymentInfo `json:"employment_info,omitempty"`
}

// UpdateTraineeRequest is the request body for updating a trainee's profile groups.
// Nil groups are left untouched.
type UpdateTraineeRequest struct {
	DisplayName    *string         `json:"display_name,omitempty"`
	Cohort         *string         `json:"cohort,omitempty"`
	PersonalInfo   *PersonalInfo   `json:"personal_info,omitempty"`
	ContactInfo    *ContactInfo    `json:"contact_info,omitempty"`
	EducationInfo  *EducationInfo  `json:"education_info,omitempty"`
	EmploymentInfo *EmploymentInfo `json:"employment_info,omitempty"`
}

// TraineeResponse is the API response for trainee operations
type TraineeResponse struct {
	Trainee
}

// TraineeListResponse is the API response for listing trainees
type TraineeListResponse struct {
	Items      []Trainee `json:"items"`
	TotalCount int       `json:"total_count"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
}
