package models

import "time"

// Course is a teacher-owned course offering. A course is invisible to students
// and cannot be enrolled in until an admin flips IsApproved.
type Course struct {
	ID           string     `db:"id" json:"id"`
	Title        string     `db:"title" json:"title"`
	Description  string     `db:"description" json:"description"`
	University   University `db:"university" json:"university"`
	TeacherID    string     `db:"teacher_id" json:"teacher_id"`
	Price        float64    `db:"price" json:"price"`
	TrialDays    int        `db:"trial_days" json:"trial_days"`
	LectureCount int        `db:"lecture_count" json:"lecture_count"`
	IsApproved   bool       `db:"is_approved" json:"is_approved"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// CourseDetail enriches Course with the owning teacher's identity.
type CourseDetail struct {
	Course
	TeacherName  string `db:"teacher_name" json:"teacher_name"`
	TeacherEmail string `db:"teacher_email" json:"teacher_email"`
}

// CourseFilter provides filters for course listings.
type CourseFilter struct {
	University *University
	TeacherID  string
	IsApproved *bool
}
