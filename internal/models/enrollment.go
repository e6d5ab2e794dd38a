package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusExpired   EnrollmentStatus = "expired"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
)

// Enrollment captures a student's registration to a course together with its
// trial window. The (UserID, CourseID) pair is unique in the store.
type Enrollment struct {
	ID             string           `db:"id" json:"id"`
	UserID         string           `db:"user_id" json:"user_id"`
	CourseID       string           `db:"course_id" json:"course_id"`
	TrialStartDate time.Time        `db:"trial_start_date" json:"trial_start_date"`
	TrialEndDate   time.Time        `db:"trial_end_date" json:"trial_end_date"`
	IsPaid         bool             `db:"is_paid" json:"is_paid"`
	Progress       int              `db:"progress" json:"progress"`
	Status         EnrollmentStatus `db:"status" json:"status"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// StatusAt evaluates the lifecycle state at the given instant without touching
// the store. Completion is terminal and dominates trial expiry; paid
// enrollments never expire.
func (e Enrollment) StatusAt(now time.Time) EnrollmentStatus {
	if e.Status == EnrollmentStatusCompleted || e.Progress >= 100 {
		return EnrollmentStatusCompleted
	}
	if !e.IsPaid && now.After(e.TrialEndDate) {
		return EnrollmentStatusExpired
	}
	if e.Status == EnrollmentStatusExpired && e.IsPaid {
		return EnrollmentStatusActive
	}
	return e.Status
}

// EnrollmentDetail enriches Enrollment with course context for listings.
// Student identity is populated only by course-roster queries.
type EnrollmentDetail struct {
	Enrollment
	CourseTitle      string     `db:"course_title" json:"course_title"`
	CourseUniversity University `db:"course_university" json:"course_university"`
	StudentName      string     `db:"student_name" json:"student_name,omitempty"`
	StudentEmail     string     `db:"student_email" json:"student_email,omitempty"`
}
