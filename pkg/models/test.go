package models

import "time"

// TestType enumerates the assessments a trainee can take.
type TestType string

const (
	TestTypeAlgorithm    TestType = "Algorithm"
	TestTypeTheory       TestType = "Theory"
	TestTypeProject      TestType = "Project"
	TestTypePresentation TestType = "Presentation"
)

func (t TestType) IsValid() bool {
	switch t {
	case TestTypeAlgorithm, TestTypeTheory, TestTypeProject, TestTypePresentation:
		return true
	}
	return false
}

func TestTypes() []TestType {
	return []TestType{TestTypeAlgorithm, TestTypeTheory, TestTypeProject, TestTypePresentation}
}

// TestResult enumerates the possible outcomes of a test.
type TestResult string

const (
	TestResultPassed            TestResult = "Passed"
	TestResultPassedWithWarning TestResult = "PassedWithWarning"
	TestResultFailed            TestResult = "Failed"
	TestResultDisqualified      TestResult = "Disqualified"
)

func (r TestResult) IsValid() bool {
	switch r {
	case TestResultPassed, TestResultPassedWithWarning, TestResultFailed, TestResultDisqualified:
		return true
	}
	return false
}

func TestResults() []TestResult {
	return []TestResult{TestResultPassed, TestResultPassedWithWarning, TestResultFailed, TestResultDisqualified}
}

// TestRecord is one assessment result for a trainee. The id is assigned by the
// repository on creation and never taken from the request body; updates resolve the
// id from the route.
type TestRecord struct {
	ID        string     `json:"id" db:"id"`
	TraineeID string     `json:"trainee_id" db:"trainee_id"`
	Date      time.Time  `json:"date" db:"date"`
	Type      TestType   `json:"type" db:"type"`
	Result    TestResult `json:"result" db:"result"`
	Score     *float64   `json:"score,omitempty" db:"score"`
	Comments  string     `json:"comments,omitempty" db:"comments"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateTestRequest is the request body for recording a test. Date uses YYYY-MM-DD.
type CreateTestRequest struct {
	Date     string   `json:"date" validate:"required"`
	Type     string   `json:"type" validate:"required"`
	Result   string   `json:"result" validate:"required"`
	Score    *float64 `json:"score,omitempty"`
	Comments string   `json:"comments,omitempty"`
}

// UpdateTestRequest is the request body for correcting a test. The full record is
// re-validated, not just the changed fields.
type UpdateTestRequest struct {
	Date     string   `json:"date" validate:"required"`
	Type     string   `json:"type" validate:"required"`
	Result   string   `json:"result" validate:"required"`
	Score    *float64 `json:"score,omitempty"`
	Comments string   `json:"comments,omitempty"`
}

// TestResponse is the API response for test operations
type TestResponse struct {
	TestRecord
}

// TestListResponse is the API response for listing a trainee's tests
type TestListResponse struct {
	Items      []TestRecord `json:"items"`
	TotalCount int          `json:"total_count"`
}
